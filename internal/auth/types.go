package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AdminUser is a dashboard account allowed to mutate site content.
type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users,alias:au"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	Name         string    `bun:"name" json:"name"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	CreatedOn    time.Time `bun:"created_on,nullzero,notnull,default:current_timestamp" json:"created_on"`
}

// Clone returns a copy safe to hand to callers.
func (u *AdminUser) Clone() *AdminUser {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
