package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Product is a catalogue entry on the marketing site.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID             uuid.UUID      `bun:",pk,type:uuid"        json:"id"`
	Name           string         `bun:"name,notnull"         json:"name"`
	Summary        string         `bun:"summary,notnull"      json:"summary"`
	Power          string         `bun:"power,notnull"        json:"power"`
	Category       string         `bun:"category"             json:"category,omitempty"`
	Images         []string       `bun:"images,type:jsonb"    json:"images"`
	Specifications map[string]any `bun:"specifications,type:jsonb" json:"specifications,omitempty"`
	Features       []string       `bun:"features,type:jsonb"  json:"features,omitempty"`
	CreatedOn      time.Time      `bun:"created_on,nullzero,default:current_timestamp" json:"created_on"`
	UpdatedOn      time.Time      `bun:"updated_on,nullzero,default:current_timestamp" json:"updated_on"`
}

// Clone returns a copy safe to hand to callers.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Images = append([]string(nil), p.Images...)
	copied.Features = append([]string(nil), p.Features...)
	if p.Specifications != nil {
		copied.Specifications = make(map[string]any, len(p.Specifications))
		for k, v := range p.Specifications {
			copied.Specifications[k] = v
		}
	}
	return &copied
}

// SpecSchema is the default JSON schema applied to product specification
// objects: free-form keys mapping to scalar values.
var SpecSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": []any{"string", "number", "boolean"},
	},
}
