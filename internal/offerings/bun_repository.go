package offerings

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

// BunOfferingRepository implements Repository with optional read-through caching.
type BunOfferingRepository struct {
	repo         repository.Repository[*Offering]
	cacheService cache.CacheService
	cachePrefix  string
}

const offeringNamespace = "offering"

// NewBunOfferingRepository creates an offering repository without caching.
func NewBunOfferingRepository(db *bun.DB) *BunOfferingRepository {
	return NewBunOfferingRepositoryWithCache(db, nil, nil)
}

// NewBunOfferingRepositoryWithCache creates an offering repository with caching services.
func NewBunOfferingRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunOfferingRepository {
	base := NewOfferingModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = "sitecms:" + offeringNamespace + ":"
	}
	return &BunOfferingRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunOfferingRepository) FetchAll(ctx context.Context) ([]*Offering, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_on DESC")
		}),
	)
	return records, err
}

func (r *BunOfferingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Offering, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "offering", id.String())
	}
	return record, nil
}

func (r *BunOfferingRepository) Create(ctx context.Context, record *Offering) (*Offering, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, r.invalidateCache(ctx)
}

func (r *BunOfferingRepository) Update(ctx context.Context, record *Offering) (*Offering, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"description",
			"features",
			"category",
			"images",
			"updated_on",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "offering", record.ID.String())
	}
	return updated, r.invalidateCache(ctx)
}

func (r *BunOfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Offering{ID: id}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return err
	}
	return r.invalidateCache(ctx)
}

func (r *BunOfferingRepository) invalidateCache(ctx context.Context) error {
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
