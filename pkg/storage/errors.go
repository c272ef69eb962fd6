package storage

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("storage key must be relative and free of '..'")
)

// validateKey rejects keys that could resolve outside the container or
// root directory.
func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.HasPrefix(key, "/"), strings.Contains(key, ".."):
		return ErrInvalidKey
	}
	return nil
}
