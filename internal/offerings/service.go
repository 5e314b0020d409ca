package offerings

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

// Service exposes service-line use-cases for the public site and the
// admin dashboard.
type Service interface {
	List(ctx context.Context, forceRefresh bool) ([]*Offering, error)
	Get(ctx context.Context, id uuid.UUID) (*Offering, error)
	Create(ctx context.Context, req CreateOfferingRequest) (*Offering, error)
	Update(ctx context.Context, req UpdateOfferingRequest) (*Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateOfferingRequest captures the information required to publish a
// service line.
type CreateOfferingRequest struct {
	Title       string
	Description string
	Features    []string
	Category    string
	Images      []string
}

// UpdateOfferingRequest captures mutable fields for an existing service
// line. Nil fields are left untouched; a non-nil Images slice replaces the
// stored list wholesale.
type UpdateOfferingRequest struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	Features    *[]string
	Category    *string
	Images      *[]string
}

var (
	ErrTitleRequired       = errors.New("offerings: title is required")
	ErrDescriptionRequired = errors.New("offerings: description is required")
	ErrIDRequired          = errors.New("offerings: offering id required")
)

// Repository abstracts storage operations for service lines.
type Repository interface {
	FetchAll(ctx context.Context) ([]*Offering, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	Create(ctx context.Context, record *Offering) (*Offering, error)
	Update(ctx context.Context, record *Offering) (*Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
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
	repo   Repository
	cache  *entitycache.Cache[*Offering]
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the offering service over the supplied repository.
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
	s.cache = entitycache.New(repo.FetchAll, entitycache.WithLogger[*Offering](s.logger))
	return s
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]*Offering, error) {
	return s.cache.Snapshot(ctx, forceRefresh)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Offering, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if cached, ok := s.cache.Find(func(o *Offering) bool { return o.ID == id }); ok {
		return cached.Clone(), nil
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateOfferingRequest) (*Offering, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	now := s.now()
	record := &Offering{
		ID:          s.id(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Features:    append([]string(nil), req.Features...),
		Category:    normalizeCategory(req.Category),
		Images:      append([]string(nil), req.Images...),
		CreatedOn:   now,
		UpdatedOn:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("offering created but cache refresh failed", "id", record.ID, "error", err)
	}
	s.logger.Info("offering created", "id", record.ID)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateOfferingRequest) (*Offering, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		existing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescriptionRequired
		}
		existing.Description = strings.TrimSpace(*req.Description)
	}
	if req.Features != nil {
		existing.Features = append([]string(nil), (*req.Features)...)
	}
	if req.Category != nil {
		existing.Category = normalizeCategory(*req.Category)
	}
	if req.Images != nil {
		existing.Images = append([]string(nil), (*req.Images)...)
	}
	existing.UpdatedOn = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("offering updated but cache refresh failed", "id", req.ID, "error", err)
	}
	s.logger.Info("offering updated", "id", req.ID)
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
		s.logger.Warn("offering deleted but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("offering deleted", "id", id)
	return nil
}

func normalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return "others"
	}
	return normalized
}
