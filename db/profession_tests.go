package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cadet_app_backend/quiz"
	"cadet_app_backend/scoring"
)

// TestRepository serves profession test definitions stored in Postgres.
type TestRepository struct {
	db            *sql.DB
	defaultTestID string
}

func NewTestRepository(db *sql.DB, defaultTestID string) *TestRepository {
	return &TestRepository{db: db, defaultTestID: defaultTestID}
}

func (r *TestRepository) Dataset(ctx context.Context, testID string) (*quiz.Dataset, error) {
	if testID == "" {
		testID = r.defaultTestID
	}

	var definition []byte
	err := r.db.QueryRowContext(ctx, `SELECT definition FROM profession_tests WHERE id = $1`, testID).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", testID, quiz.ErrUnknownTest)
	} else if err != nil {
		return nil, fmt.Errorf("error fetching test %s: %w", testID, err)
	}

	ds, err := quiz.ParseDataset(definition)
	if err != nil {
		return nil, err
	}
	ds.TestID = testID
	if err := ds.Validate(scoring.Default.Professions()); err != nil {
		return nil, err
	}

	return ds, nil
}
