// Package migrations holds the embedded schema migrations for the tracker
// database: the subscriptions table and the processed-items dedup table.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS embeds the goose SQL migration files shipped with the binary.
//
//go:embed *.sql
var FS embed.FS

// Run brings the schema of db up to the latest version.
func Run(db *sql.DB) error {
	goose.SetBaseFS(FS)

	// modernc registers its driver as "sqlite"; goose only knows "sqlite3".
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
