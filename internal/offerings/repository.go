package offerings

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewOfferingModelRepository builds the generic bun repository for offerings.
func NewOfferingModelRepository(db *bun.DB) repository.Repository[*Offering] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Offering]{
		NewRecord: func() *Offering { return &Offering{} },
		GetID: func(o *Offering) uuid.UUID {
			return o.ID
		},
		SetID: func(o *Offering, id uuid.UUID) {
			o.ID = id
		},
		GetIdentifier: func() string {
			return "title"
		},
		GetIdentifierValue: func(o *Offering) string {
			return o.Title
		},
	})
}
