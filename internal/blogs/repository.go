package blogs

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewBlogModelRepository builds the generic bun repository for blogs.
func NewBlogModelRepository(db *bun.DB) repository.Repository[*Blog] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Blog]{
		NewRecord: func() *Blog { return &Blog{} },
		GetID: func(b *Blog) uuid.UUID {
			return b.ID
		},
		SetID: func(b *Blog, id uuid.UUID) {
			b.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(b *Blog) string {
			return b.Slug
		},
	})
}
