package products

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

// BunProductRepository implements Repository with optional read-through caching.
type BunProductRepository struct {
	repo         repository.Repository[*Product]
	cacheService cache.CacheService
	cachePrefix  string
}

const productNamespace = "product"

// NewBunProductRepository creates a product repository without caching.
func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return NewBunProductRepositoryWithCache(db, nil, nil)
}

// NewBunProductRepositoryWithCache creates a product repository with caching services.
func NewBunProductRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunProductRepository {
	base := NewProductModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = "sitecms:" + productNamespace + ":"
	}
	return &BunProductRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunProductRepository) FetchAll(ctx context.Context) ([]*Product, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_on DESC")
		}),
	)
	return records, err
}

func (r *BunProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "product", id.String())
	}
	return record, nil
}

func (r *BunProductRepository) Create(ctx context.Context, record *Product) (*Product, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, r.invalidateCache(ctx)
}

func (r *BunProductRepository) Update(ctx context.Context, record *Product) (*Product, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"summary",
			"power",
			"category",
			"images",
			"specifications",
			"features",
			"updated_on",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "product", record.ID.String())
	}
	return updated, r.invalidateCache(ctx)
}

func (r *BunProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Product{ID: id}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return err
	}
	return r.invalidateCache(ctx)
}

func (r *BunProductRepository) invalidateCache(ctx context.Context) error {
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
