package blogs

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Blog is a published article on the marketing site.
type Blog struct {
	bun.BaseModel `bun:"table:blogs,alias:b"`

	ID         uuid.UUID `bun:",pk,type:uuid"          json:"id"`
	Title      string    `bun:"title,notnull"          json:"title"`
	TitleLower string    `bun:"title_lower,notnull"    json:"title_lower"`
	Slug       string    `bun:"slug,notnull"           json:"slug"`
	Summary    string    `bun:"summary,notnull"        json:"summary"`
	Body       string    `bun:"body"                   json:"body,omitempty"`
	BodyHTML   string    `bun:"-"                      json:"body_html,omitempty"`
	Category   string    `bun:"category"               json:"category,omitempty"`
	Image      string    `bun:"image"                  json:"image,omitempty"`
	CreatedOn  time.Time `bun:"created_on,nullzero,default:current_timestamp" json:"created_on"`
	UpdatedOn  time.Time `bun:"updated_on,nullzero,default:current_timestamp" json:"updated_on"`
}

// Clone returns a copy safe to hand to callers.
func (b *Blog) Clone() *Blog {
	if b == nil {
		return nil
	}
	copied := *b
	return &copied
}
