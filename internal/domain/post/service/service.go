package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/pulseboard/internal/domain/post/dao"
	"github.com/vadim/pulseboard/internal/domain/post/entity"
)

// Service handles business logic for posts
type Service struct {
	posts dao.PostRepository
}

// New creates a new post service
func New(posts dao.PostRepository) *Service {
	return &Service{posts: posts}
}

// CreateInput represents input for creating a post
type CreateInput struct {
	UserID         string
	Platform       entity.Platform
	Caption        *string
	Likes          *int
	Comments       *int
	Shares         *int
	EngagementRate *float64
	PostedAt       time.Time
}

// CreatePost creates a new post record
func (s *Service) CreatePost(ctx context.Context, in CreateInput) (*entity.Post, error) {
	now := time.Now()

	post := &entity.Post{
		ID:             uuid.New().String(),
		UserID:         in.UserID,
		Platform:       in.Platform,
		Caption:        in.Caption,
		Likes:          in.Likes,
		Comments:       in.Comments,
		Shares:         in.Shares,
		EngagementRate: in.EngagementRate,
		PostedAt:       in.PostedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost retrieves a post by ID, enforcing ownership
func (s *Service) GetPost(ctx context.Context, userID, id string) (*entity.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, entity.ErrPostNotFound
	}
	if post.UserID != userID {
		return nil, entity.ErrNotPostOwner
	}

	return post, nil
}

// DeletePost deletes a post, enforcing ownership
func (s *Service) DeletePost(ctx context.Context, userID, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return entity.ErrPostNotFound
	}
	if post.UserID != userID {
		return entity.ErrNotPostOwner
	}

	return s.posts.Delete(ctx, id)
}

// ListInput represents input for listing posts
type ListInput struct {
	UserID   string
	Platform *entity.Platform
	Limit    int
	Offset   int
}

// ListOutput represents output from listing posts
type ListOutput struct {
	Posts []entity.Post
	Total int64
}

// ListPosts retrieves a user's posts, most recent first. The ordering is part
// of the contract: the analytics summary prefers the most recently posted
// item among equally-engaging posts.
func (s *Service) ListPosts(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.PostFilter{Platform: in.Platform}

	opts := dao.ListOptions{
		Limit:  in.Limit,
		Offset: in.Offset,
	}

	posts, err := s.posts.ListByUser(ctx, in.UserID, filter, opts)
	if err != nil {
		return nil, err
	}

	total, err := s.posts.CountByUser(ctx, in.UserID, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Posts: posts, Total: total}, nil
}

// ListAllByUser retrieves every post belonging to the user, most recent
// first. The analytics engine consumes this snapshot.
func (s *Service) ListAllByUser(ctx context.Context, userID string) ([]entity.Post, error) {
	return s.posts.ListByUser(ctx, userID, dao.PostFilter{}, dao.ListOptions{})
}

// UpdateEngagement replaces a post's engagement counters with freshly
// fetched values
func (s *Service) UpdateEngagement(ctx context.Context, id string, likes, comments, shares *int) error {
	if (likes != nil && *likes < 0) ||
		(comments != nil && *comments < 0) ||
		(shares != nil && *shares < 0) {
		return entity.ErrNegativeCounter
	}

	return s.posts.UpdateEngagement(ctx, id, likes, comments, shares)
}
