package blog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

type mockBlogRepo struct {
	mock.Mock
}

func (m *mockBlogRepo) Create(ctx context.Context, post *types.BlogPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockBlogRepo) GetByID(ctx context.Context, id string) (*types.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BlogPost), args.Error(1)
}

func (m *mockBlogRepo) ListPublished(ctx context.Context, limit, offset int) ([]*types.BlogPost, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.BlogPost), args.Error(1)
}

func (m *mockBlogRepo) Update(ctx context.Context, post *types.BlogPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockBlogRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestBlog() (*Service, *mockBlogRepo) {
	repo := &mockBlogRepo{}
	return NewService(repo, logger.New("error")), repo
}

func TestCreate_SetsAuthorAndTimestamps(t *testing.T) {
	svc, repo := newTestBlog()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *types.BlogPost) bool {
		return p.AuthorID == "d1" && p.ID != "" && !p.CreatedAt.IsZero()
	})).Return(nil)

	post, err := svc.Create(context.Background(), "d1", &types.BlogPostRequest{
		Title:     "Managing seasonal allergies",
		Body:      "Pollen counts rise in spring...",
		Tags:      []string{"allergies"},
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", post.AuthorID)
	assert.True(t, post.Published)
}

func TestUpdate_OnlyAuthorOrAdmin(t *testing.T) {
	existing := &types.BlogPost{ID: "post1", AuthorID: "d1", Title: "Old"}

	cases := []struct {
		name    string
		claims  *types.Claims
		allowed bool
	}{
		{"author", &types.Claims{AccountID: "d1", Role: types.RoleDoctor}, true},
		{"other doctor", &types.Claims{AccountID: "d2", Role: types.RoleDoctor}, false},
		{"admin", &types.Claims{AccountID: "a1", Role: types.RoleAdmin}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestBlog()
			post := *existing
			repo.On("GetByID", mock.Anything, "post1").Return(&post, nil)
			repo.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()

			_, err := svc.Update(context.Background(), "post1", &types.BlogPostRequest{
				Title: "New title",
				Body:  "New body",
			}, tc.claims)

			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, types.IsKind(err, types.ErrorKindForbidden))
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdate_AppliesRequestedFields(t *testing.T) {
	svc, repo := newTestBlog()
	existing := &types.BlogPost{ID: "post1", AuthorID: "d1", Title: "Old", Published: false}

	repo.On("GetByID", mock.Anything, "post1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *types.BlogPost) bool {
		return p.Title == "New title" && p.Published
	})).Return(nil)

	updated, err := svc.Update(context.Background(), "post1", &types.BlogPostRequest{
		Title:     "New title",
		Body:      "New body",
		Published: true,
	}, &types.Claims{AccountID: "d1", Role: types.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	repo.AssertExpectations(t)
}

func TestDelete_OtherAuthorForbidden(t *testing.T) {
	svc, repo := newTestBlog()
	existing := &types.BlogPost{ID: "post1", AuthorID: "d1"}

	repo.On("GetByID", mock.Anything, "post1").Return(existing, nil)

	err := svc.Delete(context.Background(), "post1", &types.Claims{AccountID: "d2", Role: types.RoleDoctor})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_MissingPost(t *testing.T) {
	svc, repo := newTestBlog()

	repo.On("GetByID", mock.Anything, "ghost").
		Return(nil, types.NewNotFoundError(types.ErrCodePostNotFound, "Blog post not found"))

	err := svc.Delete(context.Background(), "ghost", &types.Claims{AccountID: "a1", Role: types.RoleAdmin})
	assert.True(t, types.IsKind(err, types.ErrorKindNotFound))
}
