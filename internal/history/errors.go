package history

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the backend holds no value for the key.
	ErrNotFound = errors.New("history not found")
	// ErrInvalidKey indicates an empty key or one that would escape its namespace.
	ErrInvalidKey = errors.New("invalid history key")
)

// ValidateKey rejects keys that cannot be used as a file, blob, or cache name.
func ValidateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
