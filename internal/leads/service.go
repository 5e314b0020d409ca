package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/magvolt/sitecms/internal/entitycache"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Service exposes lead intake and follow-up use-cases. Create serves the
// public contact form; the remaining operations back the admin dashboard.
type Service interface {
	List(ctx context.Context, forceRefresh bool) ([]*Lead, error)
	Get(ctx context.Context, id uuid.UUID) (*Lead, error)
	Create(ctx context.Context, req CreateLeadRequest) (*Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateLeadRequest captures a contact form submission.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Validate checks the submission before it is accepted.
func (r CreateLeadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 40)),
		validation.Field(&r.Message, validation.Length(0, 4000)),
	)
}

var (
	ErrIDRequired    = errors.New("leads: lead id required")
	ErrStatusInvalid = errors.New("leads: unknown status")
)

// Repository abstracts storage operations for leads.
type Repository interface {
	FetchAll(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	Create(ctx context.Context, record *Lead) (*Lead, error)
	Update(ctx context.Context, record *Lead) (*Lead, error)
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
	cache  *entitycache.Cache[*Lead]
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the lead service over the supplied repository.
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
	s.cache = entitycache.New(repo.FetchAll, entitycache.WithLogger[*Lead](s.logger))
	return s
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]*Lead, error) {
	return s.cache.Snapshot(ctx, forceRefresh)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Lead, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if cached, ok := s.cache.Find(func(l *Lead) bool { return l.ID == id }); ok {
		return cached.Clone(), nil
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Lead{
		ID:        s.id(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
		CreatedOn: now,
		UpdatedOn: now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("lead created but cache refresh failed", "id", record.ID, "error", err)
	}
	s.logger.Info("lead created", "id", record.ID)
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Lead, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, status)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Status = status
	existing.UpdatedOn = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("lead status updated but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("lead status updated", "id", id, "status", string(status))
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
		s.logger.Warn("lead deleted but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("lead deleted", "id", id)
	return nil
}
