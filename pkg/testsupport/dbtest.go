package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named in-memory SQLite database. Tests pass
// their own name so parallel tests never share tables.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		name = "testdb"
	}
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
}

// NewBunMemoryDB wraps an in-memory SQLite database in a bun handle limited
// to a single connection so the shared cache stays coherent.
func NewBunMemoryDB(name string) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB(name)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}
