package kv

import (
	"errors"
	"path/filepath"
	"testing"
)

// storeContract exercises the Store interface behavior every implementation
// must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("absent")
	if !errors.Is(err, ErrNoKey) {
		t.Fatalf("Get(absent) error = %v, want ErrNoKey", err)
	}

	if err := s.Set(KeyWorkspace, `{"root":{}}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(KeyWorkspace)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"root":{}}` {
		t.Errorf("Get = %q", got)
	}

	// Overwrite wins.
	if err := s.Set(KeyWorkspace, "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := s.Get(KeyWorkspace); got != "v2" {
		t.Errorf("Get after overwrite = %q", got)
	}

	// Delete, including of an absent key, succeeds.
	if err := s.Delete(KeyWorkspace); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(KeyWorkspace); !errors.Is(err, ErrNoKey) {
		t.Errorf("Get after delete error = %v, want ErrNoKey", err)
	}
	if err := s.Delete("never-set"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	storeContract(t, s)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "workspace.db")
	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	defer s.Close()
	storeContract(t, s)
}

func TestBoltStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.db")

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	if err := s.Set(KeyLayout, "persisted"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(KeyLayout)
	if err != nil || got != "persisted" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}
