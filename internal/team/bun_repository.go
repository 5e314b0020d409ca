package team

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunMemberRepository implements Repository with optional read-through caching.
type BunMemberRepository struct {
	repo         repository.Repository[*Member]
	cacheService cache.CacheService
	cachePrefix  string
}

const memberNamespace = "team-member"

// NewBunMemberRepository creates a team member repository without caching.
func NewBunMemberRepository(db *bun.DB) *BunMemberRepository {
	return NewBunMemberRepositoryWithCache(db, nil, nil)
}

// NewBunMemberRepositoryWithCache creates a team member repository with caching services.
func NewBunMemberRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunMemberRepository {
	base := NewMemberModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = "sitecms:" + memberNamespace + ":"
	}
	return &BunMemberRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunMemberRepository) FetchAll(ctx context.Context) ([]*Member, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_on DESC")
		}),
	)
	return records, err
}

func (r *BunMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "team member", id.String())
	}
	return record, nil
}

func (r *BunMemberRepository) Create(ctx context.Context, record *Member) (*Member, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, r.invalidateCache(ctx)
}

func (r *BunMemberRepository) Update(ctx context.Context, record *Member) (*Member, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"position",
			"bio",
			"image",
			"email",
			"linkedin",
			"updated_on",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "team member", record.ID.String())
	}
	return updated, r.invalidateCache(ctx)
}

func (r *BunMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Member{ID: id}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return err
	}
	return r.invalidateCache(ctx)
}

func (r *BunMemberRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
