package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant-health/clinsight/internal/domain"
)

// IntakeRepository persists submitted questionnaires. It is the concrete
// side of the questionnaire persistence collaborator; the engine only sees
// the Persister interface.
type IntakeRepository struct {
	pool *pgxpool.Pool
}

func NewIntakeRepository(pool *pgxpool.Pool) *IntakeRepository {
	return &IntakeRepository{pool: pool}
}

// SaveIntake stores one completed questionnaire with the identity it was
// submitted under.
func (r *IntakeRepository) SaveIntake(ctx context.Context, id domain.Identity, answers map[int]domain.QuestionnaireAnswer) error {
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	const q = `
INSERT INTO intake_submissions (id, username, role, answers)
VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, q, uuid.New(), id.Username, id.Role, payload); err != nil {
		return fmt.Errorf("insert intake: %w", err)
	}
	return nil
}

// ListIntakes returns the most recent submissions, newest first.
func (r *IntakeRepository) ListIntakes(ctx context.Context, limit int) ([]domain.IntakeSubmission, error) {
	const q = `
SELECT id, username, role, answers, created_at
FROM intake_submissions
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	defer rows.Close()

	var out []domain.IntakeSubmission
	for rows.Next() {
		var sub domain.IntakeSubmission
		var payload []byte
		if err := rows.Scan(&sub.ID, &sub.Username, &sub.Role, &payload, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan intake: %w", err)
		}
		if err := json.Unmarshal(payload, &sub.Answers); err != nil {
			return nil, fmt.Errorf("parse intake answers: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intakes: %w", err)
	}
	return out, nil
}
