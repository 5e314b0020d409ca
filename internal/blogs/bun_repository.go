package blogs

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

// BunBlogRepository implements Repository with optional read-through caching.
type BunBlogRepository struct {
	repo         repository.Repository[*Blog]
	cacheService cache.CacheService
	cachePrefix  string
}

const blogNamespace = "blog"

// NewBunBlogRepository creates a blog repository without caching.
func NewBunBlogRepository(db *bun.DB) *BunBlogRepository {
	return NewBunBlogRepositoryWithCache(db, nil, nil)
}

// NewBunBlogRepositoryWithCache creates a blog repository with caching services.
func NewBunBlogRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunBlogRepository {
	base := NewBlogModelRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(blogNamespace)
	}
	return &BunBlogRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunBlogRepository) FetchAll(ctx context.Context) ([]*Blog, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_on DESC")
		}),
	)
	return records, err
}

func (r *BunBlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "blog", id.String())
	}
	return record, nil
}

func (r *BunBlogRepository) GetByTitleLower(ctx context.Context, titleLower string) (*Blog, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.title_lower = ?", titleLower)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "blog", titleLower)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "blog", Key: titleLower}
	}
	return records[0], nil
}

func (r *BunBlogRepository) Create(ctx context.Context, record *Blog) (*Blog, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := r.invalidateCache(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (r *BunBlogRepository) Update(ctx context.Context, record *Blog) (*Blog, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"title_lower",
			"slug",
			"summary",
			"body",
			"category",
			"image",
			"updated_on",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "blog", record.ID.String())
	}
	if err := r.invalidateCache(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (r *BunBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Blog{ID: id}); err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil
		}
		return err
	}
	return r.invalidateCache(ctx)
}

func (r *BunBlogRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func cachePrefix(namespace string) string {
	return "sitecms:" + namespace + ":"
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
