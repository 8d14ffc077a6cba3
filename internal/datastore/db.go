package datastore

import (
	"database/sql"
	"errors"
	"fmt"

	// pq is the PostgreSQL driver
	_ "github.com/lib/pq"
)

// DB is a global database connection pool (for simplicity in this context).
// In a real application, this would be managed more carefully, e.g., passed
// through context or via dependency injection.
var DB *sql.DB

// ErrNotFound is returned when a requested record does not exist.
// Callers distinguish it from infrastructure errors with errors.Is.
var ErrNotFound = errors.New("record not found")

// InitDB initializes the database connection.
func InitDB(dataSourceName string) error {
	var err error
	DB, err = sql.Open("postgres", dataSourceName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
