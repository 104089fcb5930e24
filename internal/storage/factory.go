package storage

import (
	"errors"
	"fmt"
)

var ErrUnsupportedBackend = errors.New("unsupported store backend")

// NewStore builds the backend named by kind. The SQLite backend is only
// compiled in with the sqlite build tag.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
