package leads

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status tracks where a lead sits in the follow-up funnel.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusConverted Status = "Converted"
)

// Valid reports whether the status is one of the known funnel states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted:
		return true
	}
	return false
}

// Lead is a contact form submission from the public site.
type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     string    `bun:"phone" json:"phone"`
	Message   string    `bun:"message" json:"message"`
	Status    Status    `bun:"status,notnull" json:"status"`
	CreatedOn time.Time `bun:"created_on,nullzero,notnull,default:current_timestamp" json:"created_on"`
	UpdatedOn time.Time `bun:"updated_on,nullzero,notnull,default:current_timestamp" json:"updated_on"`
}

// Clone returns a copy safe to hand to callers.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}
