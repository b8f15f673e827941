package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens a database connection for the given type ("sqlite" or
// "postgres") and bootstraps the schema. The returned handle is owned
// by the caller.
func Connect(dbType, dsn string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	default:
		// SQLite: make sure the data directory exists for file-backed
		// databases before opening.
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, fmt.Errorf("failed to create data directory: %w", err)
				}
			}
		}
		db, err = sqlx.Connect("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	timestampType := "TIMESTAMP"
	if db.DriverName() == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
		timestampType = "TIMESTAMPTZ"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS lessons (
				id %s,
				title TEXT NOT NULL,
				topic TEXT NOT NULL DEFAULT '',
				difficulty INTEGER DEFAULT 1,
				created_at %s DEFAULT CURRENT_TIMESTAMP,
				updated_at %s DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(title, topic)
			)
		`, idColumn, timestampType, timestampType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS user_progress (
				id %s,
				user_id INTEGER NOT NULL,
				lesson_id INTEGER NOT NULL,
				ease_factor REAL DEFAULT 2.5,
				interval INTEGER DEFAULT 1,
				repetitions INTEGER DEFAULT 0,
				mastery_level INTEGER DEFAULT 0,
				last_quality INTEGER DEFAULT 0,
				last_review_date %s,
				next_review_date %s,
				created_at %s DEFAULT CURRENT_TIMESTAMP,
				updated_at %s DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (lesson_id) REFERENCES lessons(id),
				UNIQUE(user_id, lesson_id)
			)
		`, idColumn, timestampType, timestampType, timestampType, timestampType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_log (
				id %s,
				user_id INTEGER NOT NULL,
				lesson_id INTEGER NOT NULL,
				quality INTEGER NOT NULL,
				interval INTEGER NOT NULL,
				ease_factor REAL NOT NULL,
				reviewed_at %s DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (lesson_id) REFERENCES lessons(id)
			)
		`, idColumn, timestampType),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
