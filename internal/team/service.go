package team

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

// Service exposes team roster use-cases.
type Service interface {
	List(ctx context.Context, forceRefresh bool) ([]*Member, error)
	Get(ctx context.Context, id uuid.UUID) (*Member, error)
	Create(ctx context.Context, req CreateMemberRequest) (*Member, error)
	Update(ctx context.Context, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateMemberRequest captures the information required to add a team member.
type CreateMemberRequest struct {
	Name     string
	Position string
	Bio      string
	Image    string
	Email    string
	LinkedIn string
}

// UpdateMemberRequest captures mutable fields for an existing team member.
// Nil fields are left untouched.
type UpdateMemberRequest struct {
	ID       uuid.UUID
	Name     *string
	Position *string
	Bio      *string
	Image    *string
	Email    *string
	LinkedIn *string
}

var (
	ErrNameRequired     = errors.New("team: name is required")
	ErrPositionRequired = errors.New("team: position is required")
	ErrIDRequired       = errors.New("team: member id required")
)

// Repository abstracts storage operations for team members.
type Repository interface {
	FetchAll(ctx context.Context) ([]*Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Create(ctx context.Context, record *Member) (*Member, error)
	Update(ctx context.Context, record *Member) (*Member, error)
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
	cache  *entitycache.Cache[*Member]
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

// NewService constructs the team service over the supplied repository.
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
	s.cache = entitycache.New(repo.FetchAll, entitycache.WithLogger[*Member](s.logger))
	return s
}

func (s *service) List(ctx context.Context, forceRefresh bool) ([]*Member, error) {
	return s.cache.Snapshot(ctx, forceRefresh)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	if cached, ok := s.cache.Find(func(m *Member) bool { return m.ID == id }); ok {
		return cached.Clone(), nil
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Position) == "" {
		return nil, ErrPositionRequired
	}

	now := s.now()
	record := &Member{
		ID:        s.id(),
		Name:      strings.TrimSpace(req.Name),
		Position:  strings.TrimSpace(req.Position),
		Bio:       strings.TrimSpace(req.Bio),
		Image:     req.Image,
		Email:     strings.TrimSpace(req.Email),
		LinkedIn:  strings.TrimSpace(req.LinkedIn),
		CreatedOn: now,
		UpdatedOn: now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("team member created but cache refresh failed", "id", record.ID, "error", err)
	}
	s.logger.Info("team member created", "id", record.ID)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateMemberRequest) (*Member, error) {
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
	if req.Position != nil {
		if strings.TrimSpace(*req.Position) == "" {
			return nil, ErrPositionRequired
		}
		existing.Position = strings.TrimSpace(*req.Position)
	}
	if req.Bio != nil {
		existing.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Image != nil {
		existing.Image = *req.Image
	}
	if req.Email != nil {
		existing.Email = strings.TrimSpace(*req.Email)
	}
	if req.LinkedIn != nil {
		existing.LinkedIn = strings.TrimSpace(*req.LinkedIn)
	}
	existing.UpdatedOn = s.now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("team member updated but cache refresh failed", "id", req.ID, "error", err)
	}
	s.logger.Info("team member updated", "id", req.ID)
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
		s.logger.Warn("team member deleted but cache refresh failed", "id", id, "error", err)
	}
	s.logger.Info("team member deleted", "id", id)
	return nil
}
