package offerings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Offering is a service line advertised on the public site, such as
// installation or maintenance work.
type Offering struct {
	bun.BaseModel `bun:"table:offerings,alias:o"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Features    []string  `bun:"features,type:jsonb" json:"features"`
	Category    string    `bun:"category" json:"category"`
	Images      []string  `bun:"images,type:jsonb" json:"images"`
	CreatedOn   time.Time `bun:"created_on,nullzero,notnull,default:current_timestamp" json:"created_on"`
	UpdatedOn   time.Time `bun:"updated_on,nullzero,notnull,default:current_timestamp" json:"updated_on"`
}

// Clone returns a deep copy safe to hand to callers.
func (o *Offering) Clone() *Offering {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Features = append([]string(nil), o.Features...)
	clone.Images = append([]string(nil), o.Images...)
	return &clone
}
