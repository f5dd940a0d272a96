package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore appends one row per delivered notification.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Record(ctx context.Context, msg Message) error {
	vars, err := json.Marshal(msg.Variables)
	if err != nil {
		vars = nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (recipient, subject, template, variables, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, msg.Recipient, msg.Subject, msg.Template, vars)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}
