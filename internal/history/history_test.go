package history

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/storage"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

// TestLoadEmptyStore verifies an empty store yields an empty mapping and no record for bench_press.
func TestLoadEmptyStore(t *testing.T) {
	c := New(storage.NewMemory(), slog.Default())
	if got := c.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
	if _, ok := c.Get("bench_press"); ok {
		t.Error("Get(bench_press) reported a record on an empty cache")
	}
}

// TestLoadCorrupt verifies malformed contents are treated as empty.
func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	_ = s.Put(ctx, Key, []byte("{not json"))

	c := New(s, slog.Default())
	if got := c.Load(ctx); len(got) != 0 {
		t.Errorf("Load(corrupt) = %v, want empty", got)
	}
}

// TestLoadUnreadable verifies a failing store degrades to an empty cache.
func TestLoadUnreadable(t *testing.T) {
	c := New(failingStore{}, slog.Default())
	if got := c.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load(unreadable) = %v, want empty", got)
	}
}

// TestRecordPersists verifies Record overwrites an entry and a fresh cache reads it back.
func TestRecordPersists(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()

	c := New(s, slog.Default())
	c.Load(ctx)
	if err := c.Record(ctx, "squat", 5, 100); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Record(ctx, "squat", 3, 110); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := c.Record(ctx, "deadlift", 5, 140); err != nil {
		t.Fatalf("Record: %v", err)
	}

	fresh := New(s, slog.Default())
	entries := fresh.Load(ctx)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	p, ok := fresh.Get("squat")
	if !ok || p.Reps != 3 || p.Weight != 110 {
		t.Errorf("Get(squat) = %+v, %v; want {3 110}, true", p, ok)
	}
}

// TestPersistedLayout verifies the stored value is a JSON object keyed by exercise id.
func TestPersistedLayout(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()
	c := New(s, slog.Default())
	_ = c.Record(ctx, "bench_press", 8, 42.5)

	data, found, _ := s.Get(ctx, Key)
	if !found {
		t.Fatal("history key not written")
	}
	if want := `{"bench_press":{"reps":8,"weight":42.5}}`; string(data) != want {
		t.Errorf("stored = %s, want %s", data, want)
	}
}

// TestRecordStoreFailure verifies a write failure is reported but the entry stays in memory.
func TestRecordStoreFailure(t *testing.T) {
	c := New(failingStore{}, slog.Default())
	if err := c.Record(context.Background(), "plank", 1, 0); err == nil {
		t.Fatal("expected error from failing store")
	}
	if _, ok := c.Get("plank"); !ok {
		t.Error("entry lost after failed persist")
	}
}

// flakyStore fails Put while broken is set.
type flakyStore struct {
	*storage.MemoryStore
	broken bool
}

func (s *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	if s.broken {
		return errors.New("disk full")
	}
	return s.MemoryStore.Put(ctx, key, value)
}

// TestLoadKeepsUnsavedEntries verifies a reload keeps entries whose persist failed
// and drops that protection once a later write succeeds.
func TestLoadKeepsUnsavedEntries(t *testing.T) {
	ctx := context.Background()
	s := &flakyStore{MemoryStore: storage.NewMemory()}
	c := New(s, slog.Default())
	if err := c.Record(ctx, "squat", 5, 100); err != nil {
		t.Fatal(err)
	}

	s.broken = true
	if err := c.Record(ctx, "bench_press", 8, 60); err == nil {
		t.Fatal("expected error from broken store")
	}
	got := c.Load(ctx)
	if got["bench_press"] != (models.Performance{Reps: 8, Weight: 60}) {
		t.Errorf("unsaved entry lost on Load: %v", got)
	}
	if got["squat"] != (models.Performance{Reps: 5, Weight: 100}) {
		t.Errorf("persisted entry lost on Load: %v", got)
	}

	s.broken = false
	if err := c.Record(ctx, "squat", 6, 100); err != nil {
		t.Fatal(err)
	}
	fresh := New(s, slog.Default()).Load(ctx)
	if fresh["bench_press"] != (models.Performance{Reps: 8, Weight: 60}) {
		t.Errorf("bench_press not persisted by the next write: %v", fresh)
	}
	if len(c.unsaved) != 0 {
		t.Errorf("unsaved = %v, want empty", c.unsaved)
	}
}

// TestAllReturnsCopy verifies mutating the result of All does not affect the cache.
func TestAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemory(), slog.Default())
	_ = c.Record(ctx, "squat", 5, 100)

	all := c.All()
	delete(all, "squat")
	if _, ok := c.Get("squat"); !ok {
		t.Error("All() exposed internal map")
	}
}
