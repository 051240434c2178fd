package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"golftracker/internal/core"
)

func mustInsert(t *testing.T, s *Store, course, date string, cost, score int64) int64 {
	t.Helper()
	id, err := s.Insert(context.Background(), core.RoundInput{Course: course, Date: date, Cost: cost, Score: score})
	if err != nil {
		t.Fatalf("insert %s: %v", course, err)
	}
	return id
}

func TestMemoryStoreInsertAndAll(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := mustInsert(t, s, "Pebble Beach", "2024-05-01", 250, 82)

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []core.Round{{ID: id, Course: "Pebble Beach", Date: "2024-05-01", Cost: 250, Score: 82}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("all mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Insert(ctx, core.RoundInput{Date: "2024-05-01"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMemoryStoreUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := mustInsert(t, s, "Pebble Beach", "2024-05-01", 250, 82)

	upd := core.RoundInput{Course: "Spyglass", Date: "2024-05-02", Cost: 200, Score: 79}
	if err := s.Update(ctx, id, upd); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, id)
	if err != nil || got != upd.WithID(id) {
		t.Fatalf("get after update = %+v, %v", got, err)
	}

	if err := s.Update(ctx, id+100, upd); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStoreIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := mustInsert(t, s, "A", "2024-01-01", 1, 1)
	b := mustInsert(t, s, "B", "2024-01-02", 1, 1)
	if err := s.Delete(ctx, b); err != nil {
		t.Fatal(err)
	}
	n, err := s.DeleteAll(ctx)
	if err != nil || n != 1 {
		t.Fatalf("delete all = %d, %v", n, err)
	}
	c := mustInsert(t, s, "C", "2024-01-03", 1, 1)
	if c <= a || c <= b {
		t.Fatalf("id %d reused (previous %d, %d)", c, a, b)
	}
}

func TestMemoryStoreFindOrdersByDateStable(t *testing.T) {
	ctx := context.Background()
	s := New()
	late := mustInsert(t, s, "Pebble Beach", "2024-06-01", 250, 78)
	first := mustInsert(t, s, "Spyglass", "2024-05-01", 200, 90)
	second := mustInsert(t, s, "Pebble Beach", "2024-05-01", 250, 82)

	got, err := s.Find(ctx, core.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	ids := []int64{got[0].ID, got[1].ID, got[2].ID}
	if diff := cmp.Diff([]int64{first, second, late}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	got, _ = s.Find(ctx, core.ParseFilter("pebble"))
	if len(got) != 2 {
		t.Fatalf("expected 2 pebble rounds, got %d", len(got))
	}
	got, _ = s.Find(ctx, core.ParseFilter("2024-05"))
	if len(got) != 2 {
		t.Fatalf("expected 2 May rounds, got %d", len(got))
	}
}

func TestMemoryStoreSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := mustInsert(t, s, "A", "2024-01-01", 1, 1)
	all, _ := s.All(ctx)
	all[0].Course = "mutated"
	got, _ := s.Get(ctx, id)
	if got.Course != "A" {
		t.Fatalf("store mutated through snapshot")
	}
}

func TestDistinctCourses(t *testing.T) {
	s, err := NewWithRounds([]core.RoundInput{
		{Course: "spyglass", Date: "2024-01-01"},
		{Course: "Pebble Beach", Date: "2024-01-02"},
		{Course: "spyglass", Date: "2024-01-03"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.DistinctCourses(context.Background())
	if diff := cmp.Diff([]string{"Pebble Beach", "spyglass"}, got); diff != "" {
		t.Fatalf("courses mismatch (-want +got):\n%s", diff)
	}
}
