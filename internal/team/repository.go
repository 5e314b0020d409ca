package team

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewMemberModelRepository builds the generic bun repository for team members.
func NewMemberModelRepository(db *bun.DB) repository.Repository[*Member] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Member]{
		NewRecord: func() *Member { return &Member{} },
		GetID: func(m *Member) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Member, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
		GetIdentifierValue: func(m *Member) string {
			return m.Email
		},
	})
}
