package blogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magvolt/sitecms/internal/entitycache"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Service exposes blog management use-cases.
type Service interface {
	List(ctx context.Context, forceRefresh bool) ([]*Blog, error)
	Get(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetByTitle(ctx context.Context, title string) (*Blog, error)
	GetBySlug(ctx context.Context, slug string) (*Blog, error)
	Create(ctx context.Context, req CreateBlogRequest) (*Blog, error)
	Update(ctx context.Context, req UpdateBlogRequest) (*Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateBlogRequest captures the information required to publish a blog.
type CreateBlogRequest struct {
	Title    string
	Summary  string
	Body     string
	Category string
	Image    string
}

// UpdateBlogRequest captures mutable fields for an existing blog. Nil fields
// are left untouched on the stored record.
type UpdateBlogRequest struct {
	ID       uuid.UUID
	Title    *string
	Summary  *string
	Body     *string
	Category *string
	Image    *string
}

var (
	ErrTitleRequired   = errors.New("blogs: title is required")
	ErrSummaryRequired = errors.New("blogs: summary is required")
	ErrTitleExists     = errors.New("blogs: a blog with this title already exists")
	ErrIDRequired      = errors.New("blogs: blog id required")
)

// Repository abstracts storage operations for blogs. FetchAll returns the
// collection ordered by creation time descending, matching the mirror's
// canonical order.
type Repository interface {
	FetchAll(ctx context.Context) ([]*Blog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetByTitleLower(ctx context.Context, titleLower string) (*Blog, error)
	Create(ctx context.Context, record *Blog) (*Blog, error)
	Update(ctx context.Context, record *Blog) (*Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Watcher is an optional repository extension delivering full snapshots
// whenever the backing collection changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []*Blog, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Renderer converts markdown bodies into HTML for read paths.
type Renderer interface {
	Parse(markdown []byte) ([]byte, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator mints document identifiers.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithRenderer enables markdown rendering of blog bodies on single-record reads.
func WithRenderer(renderer Renderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

// WithLogger attaches the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo     Repository
	cache    *entitycache.Cache[*Blog]
	renderer Renderer
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
}

// NewService constructs the blog service over the supplied repository. The
// in-memory mirror starts uninitialized; the first read primes it.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = entitycache.New(repo.FetchAll, entitycache.WithLogger[*Blog](s.logger))
	return s
}

// StartWatch begins applying push snapshots when the repository supports
// them. It returns false when the repository has no push feed.
func StartWatch(ctx context.Context, svc Service) (bool, error) {
	s, ok := svc.(*service)
	if !ok {
		return false, nil
	}
	watcher, ok := s.repo.(Watcher)
	if !ok {
		return false, nil
	}
	feed, err := watcher.Watch(ctx)
	if err != nil {
		return false, err
	}
	go s.cache.Run(ctx, feed)
	return true, nil
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]*Blog, error) {
	return s.cache.Snapshot(ctx, forceRefresh)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Blog, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if cached, ok := s.cache.Find(func(b *Blog) bool { return b.ID == id }); ok {
		return s.render(cached.Clone()), nil
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(record), nil
}

func (s *service) GetByTitle(ctx context.Context, title string) (*Blog, error) {
	normalized := NormalizeTitle(title)
	if normalized == "" {
		return nil, &NotFoundError{Resource: "blog", Key: title}
	}
	if cached, ok := s.cache.Find(func(b *Blog) bool {
		return NormalizeTitle(b.Title) == normalized
	}); ok {
		return s.render(cached.Clone()), nil
	}
	record, err := s.repo.GetByTitleLower(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return s.render(record), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Blog, error) {
	trimmed := strings.TrimSpace(slug)
	if cached, ok := s.cache.Find(func(b *Blog) bool { return b.Slug == trimmed }); ok {
		return s.render(cached.Clone()), nil
	}
	return s.GetByTitle(ctx, TitleFromSlug(trimmed))
}

func (s *service) Create(ctx context.Context, req CreateBlogRequest) (*Blog, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, ErrSummaryRequired
	}

	normalized := NormalizeTitle(title)
	if existing, err := s.GetByTitle(ctx, title); err == nil && existing != nil {
		return nil, ErrTitleExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	record := &Blog{
		ID:         s.id(),
		Title:      title,
		TitleLower: normalized,
		Slug:       SlugFromTitle(title),
		Summary:    strings.TrimSpace(req.Summary),
		Body:       req.Body,
		Category:   strings.ToLower(strings.TrimSpace(req.Category)),
		Image:      req.Image,
		CreatedOn:  now,
		UpdatedOn:  now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("blog created but cache refresh failed", "id", record.ID, "error", err)
	}
	s.logger.Info("blog created", "id", record.ID, "slug", record.Slug)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateBlogRequest) (*Blog, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		existing.Title = title
		existing.TitleLower = NormalizeTitle(title)
		existing.Slug = SlugFromTitle(title)
	}
	if req.Summary != nil {
		if strings.TrimSpace(*req.Summary) == "" {
			return nil, ErrSummaryRequired
		}
		existing.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Body != nil {
		existing.Body = *req.Body
	}
	if req.Category != nil {
		existing.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Image != nil {
		existing.Image = *req.Image
	}
	existing.UpdatedOn = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("blog updated but cache refresh failed", "id", req.ID, "error", err)
	}
	s.logger.Info("blog updated", "id", req.ID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("blog deleted but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("blog deleted", "id", id)
	return nil
}

func (s *service) render(record *Blog) *Blog {
	if record == nil || s.renderer == nil || record.Body == "" {
		return record
	}
	html, err := s.renderer.Parse([]byte(record.Body))
	if err != nil {
		s.logger.Warn("blog body render failed", "id", record.ID, "error", err)
		return record
	}
	record.BodyHTML = string(html)
	return record
}
