package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JaimeStill/veritas/pkg/repository"
)

// SQLBackend keeps each key as a row of the history_blobs table.
// The schema is created by cmd/migrate.
type SQLBackend struct {
	db *sql.DB
}

// NewSQLBackend creates a backend over the given connection pool.
func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

const (
	selectPayload = "SELECT payload FROM history_blobs WHERE key = $1"
	upsertPayload = `INSERT INTO history_blobs (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	deletePayload = "DELETE FROM history_blobs WHERE key = $1"
)

func scanPayload(s repository.Scanner) ([]byte, error) {
	var payload []byte
	err := s.Scan(&payload)
	return payload, err
}

func (s *SQLBackend) Read(ctx context.Context, key string) ([]byte, error) {
	payload, err := repository.QueryOne(ctx, s.db, selectPayload, []any{key}, scanPayload)
	if err != nil {
		if err = repository.MapError(err, ErrNotFound); errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("select history %s: %w", key, err)
	}
	return payload, nil
}

func (s *SQLBackend) Write(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertPayload, key, string(data)); err != nil {
		return fmt.Errorf("upsert history %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Delete(ctx context.Context, key string) error {
	err := repository.ExecExpectOne(ctx, s.db, deletePayload, key)
	if err != nil {
		if err = repository.MapError(err, ErrNotFound); errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete history %s: %w", key, err)
	}
	return nil
}
