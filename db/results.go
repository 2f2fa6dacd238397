package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"cadet_app_backend/models"
	"cadet_app_backend/scoring"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult inserts a completed quiz and fills in its id and creation time.
func (r *ResultRepository) SaveResult(ctx context.Context, result *models.ProfessionTestResult) error {
	professions := make([]string, 0, len(result.Rankings))
	percentages := make([]int64, 0, len(result.Rankings))
	for _, rank := range result.Rankings {
		professions = append(professions, string(rank.Profession))
		percentages = append(percentages, int64(rank.Percentage))
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("error encoding answers: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO profession_test_results (user_id, test_id, professions, percentages, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, result.UserID, result.TestID, pq.Array(professions), pq.Array(percentages), string(answers)).
		Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving result: %w", err)
	}

	return nil
}

// ListResults returns a user's results, newest first.
func (r *ResultRepository) ListResults(ctx context.Context, userID int) ([]models.ProfessionTestResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, test_id, professions, percentages, answers, created_at
		FROM profession_test_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching results: %w", err)
	}
	defer rows.Close()

	results := make([]models.ProfessionTestResult, 0)
	for rows.Next() {
		var (
			result      models.ProfessionTestResult
			professions []string
			percentages []int64
			answers     []byte
		)
		if err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.TestID,
			pq.Array(&professions),
			pq.Array(&percentages),
			&answers,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning result: %w", err)
		}
		if len(professions) != len(percentages) {
			return nil, fmt.Errorf("result %d has %d professions but %d percentages", result.ID, len(professions), len(percentages))
		}
		result.Rankings = make([]scoring.Ranking, 0, len(professions))
		for i, p := range professions {
			result.Rankings = append(result.Rankings, scoring.Ranking{Profession: scoring.Profession(p), Percentage: int(percentages[i])})
		}
		if err := json.Unmarshal(answers, &result.Answers); err != nil {
			return nil, fmt.Errorf("error decoding answers of result %d: %w", result.ID, err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return results, nil
}
