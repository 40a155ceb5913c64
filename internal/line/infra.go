package line

import (
	"context"
	"database/sql"
	"errors"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// EnsureSchema creates the mapping table. line_user_id is UNIQUE so a
// racing create degrades to an upsert instead of duplicate rows.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_threads (
			id BIGSERIAL PRIMARY KEY,
			line_user_id TEXT NOT NULL UNIQUE,
			openai_thread_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *repo) GetThread(ctx context.Context, lineUserID string) (string, bool, error) {
	var threadID string
	err := r.db.QueryRowContext(ctx, `
		SELECT openai_thread_id
		FROM user_threads
		WHERE line_user_id = $1
	`, lineUserID).Scan(&threadID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return threadID, true, nil
}

func (r *repo) SaveThread(ctx context.Context, lineUserID, threadID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_threads (line_user_id, openai_thread_id)
		VALUES ($1, $2)
		ON CONFLICT (line_user_id)
		DO UPDATE SET openai_thread_id = EXCLUDED.openai_thread_id, updated_at = now()
	`, lineUserID, threadID)
	return err
}

func (r *repo) DeleteThread(ctx context.Context, lineUserID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_threads
		WHERE line_user_id = $1
	`, lineUserID)
	return err
}
