package leads

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewLeadModelRepository builds the generic bun repository for leads.
func NewLeadModelRepository(db *bun.DB) repository.Repository[*Lead] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Lead]{
		NewRecord: func() *Lead { return &Lead{} },
		GetID: func(l *Lead) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Lead, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(l *Lead) string {
			return l.Email
		},
	})
}
