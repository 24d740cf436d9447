package interfaces

import (
	"context"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// BlogService defines blog content management
type BlogService interface {
	Create(ctx context.Context, authorID string, req *types.BlogPostRequest) (*types.BlogPost, error)
	Get(ctx context.Context, id string) (*types.BlogPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*types.BlogPost, error)
	Update(ctx context.Context, id string, req *types.BlogPostRequest, claims *types.Claims) (*types.BlogPost, error)
	Delete(ctx context.Context, id string, claims *types.Claims) error
}

// BlogRepository defines blog post data persistence
type BlogRepository interface {
	Create(ctx context.Context, post *types.BlogPost) error
	GetByID(ctx context.Context, id string) (*types.BlogPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*types.BlogPost, error)
	Update(ctx context.Context, post *types.BlogPost) error
	Delete(ctx context.Context, id string) error
}
