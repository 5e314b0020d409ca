package auth

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewAdminUserModelRepository builds the generic bun repository for admin users.
func NewAdminUserModelRepository(db *bun.DB) repository.Repository[*AdminUser] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*AdminUser]{
		NewRecord: func() *AdminUser { return &AdminUser{} },
		GetID: func(u *AdminUser) uuid.UUID {
			return u.ID
		},
		SetID: func(u *AdminUser, id uuid.UUID) {
			u.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(u *AdminUser) string {
			return u.Email
		},
	})
}
