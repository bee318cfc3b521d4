package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
)

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	r := &Report{Start: 1, End: 5, Estimate: estimate.Result{Count: 1, AvgLength: 2}}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("Save() ID = %q, want a UUID", r.ID)
	}
	if r.CreatedAt.IsZero() {
		t.Error("Save() should set CreatedAt")
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Estimate != r.Estimate || got.Start != 1 || got.End != 5 {
		t.Errorf("Get() = %+v, want %+v", got, r)
	}

	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}

	later := &Report{CreatedAt: r.CreatedAt.Add(time.Second), Start: 2, End: 3}
	if err := s.Save(ctx, later); err != nil {
		t.Fatalf("Save: %v", err)
	}
	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) < 2 || list[0].ID != later.ID {
		t.Fatalf("List() should return newest first, got %d reports", len(list))
	}

	one, _ := s.List(ctx, 1)
	if len(one) != 1 {
		t.Errorf("List(1) returned %d reports", len(one))
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	r := &Report{ID: "fixed", Start: 1}
	_ = s.Save(ctx, r)

	r.Start = 99
	got, _ := s.Get(ctx, "fixed")
	if got.Start != 1 {
		t.Errorf("stored report changed with caller's copy: Start = %d", got.Start)
	}
}

func TestMemoryStoreDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < DefaultListLimit+5; i++ {
		_ = s.Save(ctx, &Report{})
	}
	list, _ := s.List(ctx, 0)
	if len(list) != DefaultListLimit {
		t.Errorf("List(0) returned %d, want %d", len(list), DefaultListLimit)
	}
}

// TestMongoStore runs against a live server named by UNIQUEPATHS_TEST_MONGO_URI.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("UNIQUEPATHS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("UNIQUEPATHS_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{
		URI:        uri,
		Database:   "uniquepaths_test",
		Collection: "runs_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}
