package blog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/interfaces"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Service implements blog content management
type Service struct {
	repo   interfaces.BlogRepository
	logger *logger.Logger
}

// NewService creates a new blog service
func NewService(repo interfaces.BlogRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Create publishes a new post authored by the caller
func (s *Service) Create(ctx context.Context, authorID string, req *types.BlogPostRequest) (*types.BlogPost, error) {
	now := time.Now()
	post := &types.BlogPost{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     req.Title,
		Body:      req.Body,
		Tags:      req.Tags,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, types.NewInternalError(types.ErrCodeInternalError, "Failed to create blog post", err)
	}

	return post, nil
}

// Get retrieves a post by ID
func (s *Service) Get(ctx context.Context, id string) (*types.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPublished lists published posts, newest first
func (s *Service) ListPublished(ctx context.Context, limit, offset int) ([]*types.BlogPost, error) {
	return s.repo.ListPublished(ctx, limit, offset)
}

// Update edits a post. Only the author or an admin may edit.
func (s *Service) Update(ctx context.Context, id string, req *types.BlogPostRequest, claims *types.Claims) (*types.BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canModify(post, claims) {
		return nil, types.NewForbiddenError(types.ErrCodeForbidden, "Only the author or an admin can edit this post")
	}

	post.Title = req.Title
	post.Body = req.Body
	post.Tags = req.Tags
	post.Published = req.Published
	post.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("Blog post updated", "post_id", id, "by", claims.AccountID)
	return post, nil
}

// Delete removes a post. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, id string, claims *types.Claims) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.canModify(post, claims) {
		return types.NewForbiddenError(types.ErrCodeForbidden, "Only the author or an admin can delete this post")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Blog post deleted", "post_id", id, "by", claims.AccountID)
	return nil
}

func (s *Service) canModify(post *types.BlogPost, claims *types.Claims) bool {
	if claims.Role == types.RoleAdmin || claims.Role == types.RoleSuperAdmin {
		return true
	}
	return post.AuthorID == claims.AccountID
}
