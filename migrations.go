package sitecms

import (
	"context"
	"embed"

	"github.com/uptrace/bun"

	"github.com/magvolt/sitecms/internal/auth"
	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/offerings"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/internal/team"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// EnsureSchema creates the tables the module persists to if they do not
// exist yet. Hosts running a dedicated migration tool can feed it
// GetMigrationsFS instead and skip this.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*blogs.Blog)(nil),
		(*products.Product)(nil),
		(*offerings.Offering)(nil),
		(*team.Member)(nil),
		(*leads.Lead)(nil),
		(*auth.AdminUser)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
