package memstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSetGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "color", "blue"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "color")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || v != "blue" {
		t.Fatalf("got (%q, %v), want (blue, true)", v, ok)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "color", "blue"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "color", "green"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "color")
	if err != nil || !ok {
		t.Fatalf("Get: %v ok=%v", err, ok)
	}
	if v != "green" {
		t.Fatalf("got %q, want green", v)
	}
}

func TestSQLiteMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key reported as present")
	}
}

func TestSQLiteConcurrentWriters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := s.Set(ctx, "shared", "v"); err != nil {
					t.Errorf("Set: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	v, ok, err := s.Get(ctx, "shared")
	if err != nil || !ok || v != "v" {
		t.Fatalf("got (%q, %v, %v), want (v, true, nil)", v, ok, err)
	}
}
