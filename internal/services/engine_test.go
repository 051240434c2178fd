package services

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"golftracker/internal/cache"
	"golftracker/internal/core"
	"golftracker/internal/rounds/memory"
	"golftracker/internal/storage"
)

var errDiskGone = errors.New("disk gone")

// brokenStore fails every call with a storage error.
type brokenStore struct{}

func (brokenStore) Insert(context.Context, core.RoundInput) (int64, error) {
	return 0, core.NewStorageError("insert round", errDiskGone)
}
func (brokenStore) Update(context.Context, int64, core.RoundInput) error {
	return core.NewStorageError("update round", errDiskGone)
}
func (brokenStore) Delete(context.Context, int64) error {
	return core.NewStorageError("delete round", errDiskGone)
}
func (brokenStore) DeleteAll(context.Context) (int64, error) {
	return 0, core.NewStorageError("delete all rounds", errDiskGone)
}
func (brokenStore) Get(context.Context, int64) (core.Round, error) {
	return core.Round{}, core.NewStorageError("get round", errDiskGone)
}
func (brokenStore) All(context.Context) ([]core.Round, error) {
	return nil, core.NewStorageError("list rounds", errDiskGone)
}
func (brokenStore) Find(context.Context, core.Filter) ([]core.Round, error) {
	return nil, core.NewStorageError("find rounds", errDiskGone)
}
func (brokenStore) DistinctCourses(context.Context) ([]string, error) {
	return nil, core.NewStorageError("list courses", errDiskGone)
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(memory.New(), opts...)
}

func seed(t *testing.T, e *Engine, in ...core.RoundInput) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(in))
	for _, r := range in {
		id, err := e.Add(context.Background(), r)
		if err != nil {
			t.Fatalf("seed %+v: %v", r, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func sampleInputs() []core.RoundInput {
	return []core.RoundInput{
		{Course: "Pebble", Date: "2024-05-01", Cost: 250, Score: 82},
		{Course: "Pebble", Date: "2024-06-01", Cost: 250, Score: 78},
		{Course: "Spyglass", Date: "2024-05-15", Cost: 200, Score: 90},
	}
}

func TestEngineStats(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	seed(t, e, sampleInputs()...)

	st, err := e.Stats(ctx, core.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if st.Count != 3 || st.TotalCost != 700 {
		t.Fatalf("count/total = %d/%d, want 3/700", st.Count, st.TotalCost)
	}
	if math.Abs(st.AvgCost-233.3333) > 0.001 || math.Abs(st.AvgScore-83.3333) > 0.001 {
		t.Fatalf("averages = %.4f/%.4f", st.AvgCost, st.AvgScore)
	}
	if st.MinScore != (core.OptionalScore{Value: 78, Valid: true}) || st.MaxScore != (core.OptionalScore{Value: 90, Valid: true}) {
		t.Fatalf("min/max = %v/%v", st.MinScore, st.MaxScore)
	}

	st, err = e.Stats(ctx, core.ParseFilter("2023"))
	if err != nil {
		t.Fatal(err)
	}
	if !st.Empty() || st.AvgCost != 0 || st.AvgScore != 0 || st.MinScore.Valid || st.MaxScore.Valid {
		t.Fatalf("expected empty stats, got %+v", st)
	}
}

func TestEngineListOrdersByDateStably(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	ids := seed(t, e,
		core.RoundInput{Course: "B", Date: "2024-05-02", Cost: 1, Score: 70},
		core.RoundInput{Course: "A", Date: "2024-05-01", Cost: 1, Score: 71},
		core.RoundInput{Course: "C", Date: "2024-05-02", Cost: 1, Score: 72},
	)

	got, err := e.List(ctx, core.ParseFilter("2024-05"))
	if err != nil {
		t.Fatal(err)
	}
	var order []int64
	for _, r := range got {
		order = append(order, r.ID)
	}
	if diff := cmp.Diff([]int64{ids[1], ids[0], ids[2]}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineListFilters(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	seed(t, e, sampleInputs()...)

	tests := []struct {
		filter string
		want   int
	}{
		{"", 3},
		{"2024-05-01", 1},
		{"2024-05", 2},
		{"2024", 3},
		{"pebble", 2},
		{"GLASS", 1},
		{"2025", 0},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := e.List(ctx, core.ParseFilter(tt.filter))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("List(%q) returned %d rounds, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestEngineCachePurgedOnMutation(t *testing.T) {
	ctx := context.Background()
	lru := cache.NewLRUCache[[]core.Round](8, time.Minute)
	e := newTestEngine(t, WithCache(lru))
	ids := seed(t, e, sampleInputs()...)

	first, err := e.List(ctx, core.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if lru.Size() != 1 {
		t.Fatalf("cache size = %d, want 1", lru.Size())
	}

	// Callers own the returned slice.
	first[0].Course = "Mutated"
	again, _ := e.List(ctx, core.Filter{})
	if again[0].Course == "Mutated" {
		t.Fatal("cached snapshot was mutated through a returned slice")
	}

	if err := e.Delete(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if lru.Size() != 0 {
		t.Fatalf("cache not purged after delete, size %d", lru.Size())
	}
	after, _ := e.List(ctx, core.Filter{})
	if len(after) != 2 {
		t.Fatalf("list after delete has %d rounds, want 2", len(after))
	}
}

func TestEngineSeriesUsesFilter(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	seed(t, e, sampleInputs()...)

	s, err := e.Series(ctx, core.RoundsPerCourse, core.ParseFilter("2024-05"))
	if err != nil {
		t.Fatal(err)
	}
	want := []core.SeriesPoint{{Course: "Pebble", Value: 1}, {Course: "Spyglass", Value: 1}}
	if diff := cmp.Diff(want, s.Points); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}

	all, err := e.AllSeries(ctx, core.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(core.ChartKinds()) {
		t.Fatalf("AllSeries returned %d series", len(all))
	}
	for i, kind := range core.ChartKinds() {
		if all[i].Kind != kind {
			t.Fatalf("series %d kind = %s, want %s", i, all[i].Kind, kind)
		}
	}
}

func TestEngineNotFound(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	if err := e.Delete(ctx, 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
	if err := e.Update(ctx, 42, sampleInputs()[0]); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if _, err := e.Get(ctx, 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get missing: %v", err)
	}
}

func TestEngineIDsNotReusedAfterDeleteAll(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	ids := seed(t, e, sampleInputs()...)

	n, err := e.DeleteAll(ctx)
	if err != nil || n != 3 {
		t.Fatalf("DeleteAll = %d, %v", n, err)
	}
	next := seed(t, e, sampleInputs()[0])
	if next[0] <= ids[len(ids)-1] {
		t.Fatalf("id %d reused, previous max %d", next[0], ids[len(ids)-1])
	}
}

func TestEngineStorageFailure(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(brokenStore{})

	if _, err := e.List(ctx, core.Filter{}); !errors.Is(err, core.ErrStorage) || !errors.Is(err, errDiskGone) {
		t.Fatalf("list: %v", err)
	}
	if _, err := e.Add(ctx, sampleInputs()[0]); !errors.Is(err, core.ErrStorage) {
		t.Fatalf("add: %v", err)
	}
	if got := e.Courses(ctx); got != nil {
		t.Fatalf("courses should degrade to nil, got %v", got)
	}
}

func TestEngineCourses(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e, sampleInputs()...)

	if diff := cmp.Diff([]string{"Pebble", "Spyglass"}, e.Courses(context.Background())); diff != "" {
		t.Fatalf("courses mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineCourseFilterFoldsUnicodeWithAndWithoutCache(t *testing.T) {
	for _, cached := range []bool{false, true} {
		name := "uncached"
		if cached {
			name = "cached"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "golf.db"))
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { repo.Close() })

			var opts []Option
			if cached {
				opts = append(opts, WithCache(cache.NewLRUCache[[]core.Round](8, time.Minute)))
			}
			e := NewEngine(repo, opts...)
			seed(t, e,
				core.RoundInput{Course: "Étretat", Date: "2024-04-01", Cost: 90, Score: 84},
				core.RoundInput{Course: "Pebble", Date: "2024-04-02", Cost: 250, Score: 80},
			)

			for _, text := range []string{"ÉTRETAT", "étretat", "Étretat"} {
				got, err := e.List(ctx, core.ParseFilter(text))
				if err != nil {
					t.Fatal(err)
				}
				if len(got) != 1 || got[0].Course != "Étretat" {
					t.Fatalf("List(%q) = %+v, want the Étretat round", text, got)
				}
			}
		})
	}
}
