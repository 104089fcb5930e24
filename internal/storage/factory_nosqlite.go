//go:build !sqlite

package storage

import "fmt"

func newSQLiteStore(_ string) (Store, error) {
	return nil, fmt.Errorf("%w: sqlite backend unavailable in this build; rebuild with -tags sqlite", ErrUnsupportedBackend)
}
