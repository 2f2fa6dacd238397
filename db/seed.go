package db

import (
	"database/sql"
	"fmt"

	"cadet_app_backend/quiz"
	"cadet_app_backend/scoring"
)

// SeedData stores the given test definitions unless a test with the same id
// already exists.
func SeedData(db *sql.DB, datasets ...*quiz.Dataset) error {
	// Start a transaction
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	for _, ds := range datasets {
		definition, err := ds.Encode(scoring.Default.Professions())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error encoding test %s: %w", ds.TestID, err)
		}
		_, err = tx.Exec(
			"INSERT INTO profession_tests (id, title, definition) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
			ds.TestID, ds.Title, string(definition),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error seeding test %s: %w", ds.TestID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
