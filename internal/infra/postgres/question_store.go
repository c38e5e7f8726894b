package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"resident-lockdown/internal/domain"
)

// QuestionStore keeps each level's question sequence as JSONB rows ordered by position.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadQuestions(ctx context.Context, level int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM questions WHERE level=$1 ORDER BY position`, level)
	if err != nil {
		return nil, fmt.Errorf("load level %d questions: %w", level, err)
	}
	defer rows.Close()

	qs := []domain.Question{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}

// Count reports how many questions a level holds.
func (s *QuestionStore) Count(ctx context.Context, level int) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions WHERE level=$1`, level).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count level %d questions: %w", level, err)
	}
	return n, nil
}

// Replace swaps a level's whole sequence in one transaction.
func (s *QuestionStore) Replace(ctx context.Context, level int, qs []domain.Question) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE level=$1`, level); err != nil {
		return fmt.Errorf("clear level %d: %w", level, err)
	}
	batch := &pgx.Batch{}
	for i, q := range qs {
		raw, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question %s: %w", q.ID, err)
		}
		batch.Queue(`INSERT INTO questions (id, level, position, data) VALUES ($1, $2, $3, $4)`, q.ID, level, i, raw)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert level %d questions: %w", level, err)
	}
	return tx.Commit(ctx)
}
