package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golftracker/internal/core"
	"golftracker/internal/rounds"
)

var _ rounds.Store = (*Store)(nil)

// Store keeps rounds in process memory. Writes are serialized and readers
// receive copies, so a snapshot never changes under its holder.
type Store struct {
	mu     sync.RWMutex
	lastID int64
	items  []core.Round // insertion order
}

func New() *Store {
	return &Store{}
}

// NewWithRounds seeds the store, assigning fresh ids in order.
func NewWithRounds(seed []core.RoundInput) (*Store, error) {
	s := New()
	for _, in := range seed {
		if _, err := s.Insert(context.Background(), in); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Insert(_ context.Context, in core.RoundInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.items = append(s.items, in.WithID(s.lastID))
	return s.lastID, nil
}

func (s *Store) Update(_ context.Context, id int64, in core.RoundInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.items[i] = in.WithID(id)
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// DeleteAll keeps lastID so ids are never handed out twice.
func (s *Store) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.items))
	s.items = nil
	return n, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Round{}, &core.NotFoundError{ID: id}
	}
	return s.items[i], nil
}

func (s *Store) All(_ context.Context) ([]core.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Round(nil), s.items...), nil
}

func (s *Store) Find(_ context.Context, f core.Filter) ([]core.Round, error) {
	s.mu.RLock()
	out := make([]core.Round, 0, len(s.items))
	for _, r := range s.items {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) DistinctCourses(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dedupeSorted(s.items), nil
}

// Close is a no-op; it lets the store stand in for the SQLite one.
func (s *Store) Close() error { return nil }

// items are kept in id order, so a binary search is enough.
func (s *Store) indexOf(id int64) int {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].ID >= id })
	if i < len(s.items) && s.items[i].ID == id {
		return i
	}
	return -1
}

func dedupeSorted(in []core.Round) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r.Course]; ok {
			continue
		}
		seen[r.Course] = struct{}{}
		out = append(out, r.Course)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
