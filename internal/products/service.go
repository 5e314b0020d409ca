package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magvolt/sitecms/internal/entitycache"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/internal/validation"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Service exposes product catalogue use-cases.
type Service interface {
	List(ctx context.Context, forceRefresh bool) ([]*Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateProductRequest captures the information required to list a product.
type CreateProductRequest struct {
	Name           string
	Summary        string
	Power          string
	Category       string
	Images         []string
	Specifications map[string]any
	Features       []string
}

// UpdateProductRequest captures mutable fields for an existing product. Nil
// fields are left untouched; a non-nil Images slice replaces the stored list
// wholesale (callers reconcile deletions and uploads first).
type UpdateProductRequest struct {
	ID             uuid.UUID
	Name           *string
	Summary        *string
	Power          *string
	Category       *string
	Images         *[]string
	Specifications map[string]any
	Features       *[]string
}

var (
	ErrNameRequired    = errors.New("products: name is required")
	ErrSummaryRequired = errors.New("products: summary is required")
	ErrPowerRequired   = errors.New("products: power rating is required")
	ErrIDRequired      = errors.New("products: product id required")
	ErrSpecInvalid     = errors.New("products: specifications failed schema validation")
)

// Repository abstracts storage operations for products.
type Repository interface {
	FetchAll(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, record *Product) (*Product, error)
	Update(ctx context.Context, record *Product) (*Product, error)
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

// WithSpecSchema replaces the JSON schema used to validate specification
// objects. Passing nil disables validation.
func WithSpecSchema(schema map[string]any) ServiceOption {
	return func(s *service) {
		s.specSchema = schema
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
	repo       Repository
	cache      *entitycache.Cache[*Product]
	specSchema map[string]any
	now        func() time.Time
	id         func() uuid.UUID
	logger     interfaces.Logger
}

// NewService constructs the product service over the supplied repository.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		specSchema: SpecSchema,
		now:        time.Now,
		id:         uuid.New,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = entitycache.New(repo.FetchAll, entitycache.WithLogger[*Product](s.logger))
	return s
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]*Product, error) {
	return s.cache.Snapshot(ctx, forceRefresh)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if cached, ok := s.cache.Find(func(p *Product) bool { return p.ID == id }); ok {
		return cached.Clone(), nil
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, ErrSummaryRequired
	}
	if strings.TrimSpace(req.Power) == "" {
		return nil, ErrPowerRequired
	}
	if err := s.validateSpec(req.Specifications); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Product{
		ID:             s.id(),
		Name:           strings.TrimSpace(req.Name),
		Summary:        strings.TrimSpace(req.Summary),
		Power:          strings.TrimSpace(req.Power),
		Category:       normalizeCategory(req.Category),
		Images:         append([]string(nil), req.Images...),
		Specifications: req.Specifications,
		Features:       append([]string(nil), req.Features...),
		CreatedOn:      now,
		UpdatedOn:      now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("product created but cache refresh failed", "id", record.ID, "error", err)
	}
	s.logger.Info("product created", "id", record.ID)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateProductRequest) (*Product, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Summary != nil {
		if strings.TrimSpace(*req.Summary) == "" {
			return nil, ErrSummaryRequired
		}
		existing.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Power != nil {
		if strings.TrimSpace(*req.Power) == "" {
			return nil, ErrPowerRequired
		}
		existing.Power = strings.TrimSpace(*req.Power)
	}
	if req.Category != nil {
		existing.Category = normalizeCategory(*req.Category)
	}
	if req.Images != nil {
		existing.Images = append([]string(nil), (*req.Images)...)
	}
	if req.Specifications != nil {
		if err := s.validateSpec(req.Specifications); err != nil {
			return nil, err
		}
		existing.Specifications = req.Specifications
	}
	if req.Features != nil {
		existing.Features = append([]string(nil), (*req.Features)...)
	}
	existing.UpdatedOn = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("product updated but cache refresh failed", "id", req.ID, "error", err)
	}
	s.logger.Info("product updated", "id", req.ID)
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
		s.logger.Warn("product deleted but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("product deleted", "id", id)
	return nil
}

func (s *service) validateSpec(spec map[string]any) error {
	if len(spec) == 0 || len(s.specSchema) == 0 {
		return nil
	}
	if err := validation.ValidatePayload(s.specSchema, spec); err != nil {
		return fmt.Errorf("%w: %v", ErrSpecInvalid, err)
	}
	return nil
}

func normalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return "others"
	}
	return normalized
}
