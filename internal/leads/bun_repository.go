package leads

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

// BunLeadRepository implements Repository with optional read-through caching.
type BunLeadRepository struct {
	repo         repository.Repository[*Lead]
	cacheService cache.CacheService
	cachePrefix  string
}

const leadNamespace = "lead"

// NewBunLeadRepository creates a lead repository without caching.
func NewBunLeadRepository(db *bun.DB) *BunLeadRepository {
	return NewBunLeadRepositoryWithCache(db, nil, nil)
}

// NewBunLeadRepositoryWithCache creates a lead repository with caching services.
func NewBunLeadRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunLeadRepository {
	base := NewLeadModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = "sitecms:" + leadNamespace + ":"
	}
	return &BunLeadRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunLeadRepository) FetchAll(ctx context.Context) ([]*Lead, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_on DESC")
		}),
	)
	return records, err
}

func (r *BunLeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "lead", id.String())
	}
	return record, nil
}

func (r *BunLeadRepository) Create(ctx context.Context, record *Lead) (*Lead, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, r.invalidateCache(ctx)
}

func (r *BunLeadRepository) Update(ctx context.Context, record *Lead) (*Lead, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"status",
			"updated_on",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "lead", record.ID.String())
	}
	return updated, r.invalidateCache(ctx)
}

func (r *BunLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Lead{ID: id}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return err
	}
	return r.invalidateCache(ctx)
}

func (r *BunLeadRepository) invalidateCache(ctx context.Context) error {
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
