package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultKey is the storage key the history log is persisted under.
const DefaultKey = "fakeNewsHistory"

// Backend stores opaque payloads by key.
// Read and Delete return ErrNotFound when the key holds no value.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Store mirrors a Log into a Backend under a single fixed key.
// Every Save replaces the full payload.
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger
}

// NewStore creates a Store persisting under key through backend.
func NewStore(backend Backend, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		backend: backend,
		key:     key,
		logger:  logger.With("system", "history", "key", key),
	}
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Load reads the persisted log. It never fails: a missing key, a backend
// error, or a payload that does not decode all yield an empty log.
func (s *Store) Load(ctx context.Context) Log {
	data, err := s.backend.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("history read failed", "error", err)
		}
		return Log{}
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Warn("discarding unreadable history", "error", err, "bytes", len(data))
		return Log{}
	}

	return log.Truncate()
}

// Save serializes log and overwrites the stored payload.
func (s *Store) Save(ctx context.Context, log Log) error {
	if log == nil {
		log = Log{}
	}

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := s.backend.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	s.logger.Debug("history saved", "entries", len(log))
	return nil
}

// Clear removes the stored payload. Clearing an absent key succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete history: %w", err)
	}

	s.logger.Debug("history cleared")
	return nil
}
