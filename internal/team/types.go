package team

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Member is a person shown on the about page.
type Member struct {
	bun.BaseModel `bun:"table:team_members,alias:tm"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Position  string    `bun:"position,notnull" json:"position"`
	Bio       string    `bun:"bio" json:"bio"`
	Image     string    `bun:"image" json:"image"`
	Email     string    `bun:"email" json:"email"`
	LinkedIn  string    `bun:"linkedin" json:"linkedin"`
	CreatedOn time.Time `bun:"created_on,nullzero,notnull,default:current_timestamp" json:"created_on"`
	UpdatedOn time.Time `bun:"updated_on,nullzero,notnull,default:current_timestamp" json:"updated_on"`
}

// Clone returns a copy safe to hand to callers.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
