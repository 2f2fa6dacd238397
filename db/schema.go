package db

import (
	"database/sql"
	"fmt"
)

const Schema = `
-- Create profession_tests table
CREATE TABLE IF NOT EXISTS profession_tests (
    id VARCHAR(100) PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    definition JSONB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Create profession_test_results table
-- professions and percentages are parallel arrays in ranked order
CREATE TABLE IF NOT EXISTS profession_test_results (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL,
    test_id VARCHAR(100) NOT NULL,
    professions TEXT[] NOT NULL,
    percentages INTEGER[] NOT NULL,
    answers JSONB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS profession_test_results_user_id_idx
    ON profession_test_results (user_id, created_at DESC);
`

// InitSchema initializes the database schema
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}
	return nil
}
