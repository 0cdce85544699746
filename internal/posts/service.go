package posts

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
)

// detailCacheSize bounds the read-through cache for single posts.
const detailCacheSize = 64

// Gateway is the slice of the API client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// CreatePayload is a new article.
type CreatePayload struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	VideoURL string   `json:"videoUrl,omitempty" validate:"omitempty,url"`
}

// UpdatePayload edits an article. AuthorID is never part of an update.
type UpdatePayload struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	VideoURL string   `json:"videoUrl,omitempty" validate:"omitempty,url"`
}

// Service exposes the post endpoints of the backend.
type Service struct {
	gateway  Gateway
	validate *validator.Validate
	detail   *lru.Cache[string, Post]
}

// NewService builds a Service over the gateway.
func NewService(gateway Gateway) *Service {
	cache, _ := lru.New[string, Post](detailCacheSize)
	return &Service{gateway: gateway, validate: validator.New(), detail: cache}
}

// List returns the unfiltered post collection.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := s.gateway.Get(ctx, "/posts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMine returns the caller's own posts.
func (s *Service) ListMine(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := s.gateway.Get(ctx, "/posts/mine", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns a page of posts matching params. With no filters and
// no pagination it falls back to the plain listing endpoint.
func (s *Service) Search(ctx context.Context, params SearchParams, page, limit int) ([]Post, error) {
	query := params.Values(page, limit).Encode()
	if query == "" {
		return s.List(ctx)
	}
	var out []Post
	if err := s.gateway.Get(ctx, "/posts/search?"+query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMine is Search restricted to the caller's own posts.
func (s *Service) SearchMine(ctx context.Context, params SearchParams, page, limit int) ([]Post, error) {
	query := params.Values(page, limit).Encode()
	if query == "" {
		return s.ListMine(ctx)
	}
	var out []Post
	if err := s.gateway.Get(ctx, "/posts/mine/search?"+query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one post, serving repeat reads from the detail cache.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	if cached, ok := s.detail.Get(id); ok {
		return &cached, nil
	}
	var out Post
	if err := s.gateway.Get(ctx, "/posts/"+id, &out); err != nil {
		return nil, err
	}
	s.detail.Add(id, out)
	return &out, nil
}

// Create publishes a new post.
func (s *Service) Create(ctx context.Context, payload CreatePayload) (*Post, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("posts: invalid post: %w", err)
	}
	var out Post
	if err := s.gateway.Post(ctx, "/posts", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits an existing post and drops it from the detail cache.
func (s *Service) Update(ctx context.Context, id string, payload UpdatePayload) (*Post, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("posts: invalid post: %w", err)
	}
	var out Post
	if err := s.gateway.Put(ctx, "/posts/"+id, payload, &out); err != nil {
		return nil, err
	}
	s.detail.Remove(id)
	return &out, nil
}

// Delete removes a post and drops it from the detail cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, "/posts/"+id); err != nil {
		return err
	}
	s.detail.Remove(id)
	return nil
}

// AllSource adapts the service to the paginator over every post.
func (s *Service) AllSource() Source {
	return allSource{svc: s}
}

// MineSource adapts the service to the paginator over the caller's
// own posts.
func (s *Service) MineSource() Source {
	return mineSource{svc: s}
}

type allSource struct{ svc *Service }

func (a allSource) Snapshot(ctx context.Context) ([]Post, error) {
	return a.svc.List(ctx)
}

func (a allSource) Page(ctx context.Context, params SearchParams, page, limit int) ([]Post, error) {
	return a.svc.Search(ctx, params, page, limit)
}

type mineSource struct{ svc *Service }

func (m mineSource) Snapshot(ctx context.Context) ([]Post, error) {
	return m.svc.ListMine(ctx)
}

func (m mineSource) Page(ctx context.Context, params SearchParams, page, limit int) ([]Post, error) {
	return m.svc.SearchMine(ctx, params, page, limit)
}
