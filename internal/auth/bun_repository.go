package auth

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// BunAdminUserRepository implements Repository over a bun database.
type BunAdminUserRepository struct {
	repo repository.Repository[*AdminUser]
}

// NewBunAdminUserRepository creates an admin user repository.
func NewBunAdminUserRepository(db *bun.DB) *BunAdminUserRepository {
	return &BunAdminUserRepository{repo: NewAdminUserModelRepository(db)}
}

func (r *BunAdminUserRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.email = ?", email)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "admin user", email)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "admin user", Key: email}
	}
	return records[0], nil
}

func (r *BunAdminUserRepository) Create(ctx context.Context, record *AdminUser) (*AdminUser, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
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
