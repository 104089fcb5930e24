package storage

import (
	"errors"
	"testing"
)

func TestNewStoreMemory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("new %q store: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("expected memory store for %q, got %T", kind, store)
		}
		if err := CloseIfSupported(store); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf("expected ErrUnsupportedBackend, got %v", err)
	}
}
