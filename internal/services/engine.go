package services

import (
	"context"
	"fmt"
	"sort"

	"golftracker/internal/cache"
	"golftracker/internal/core"
	applog "golftracker/internal/log"
	"golftracker/internal/rounds"
)

// Engine answers round queries and applies mutations against one store.
// It replaces process-wide state: callers hold an *Engine and pass it on.
type Engine struct {
	store  rounds.Store
	cache  cache.Cache[[]core.Round]
	logger *applog.Logger
}

type Option func(*Engine)

// WithCache caches filtered list snapshots. Every mutation purges it.
func WithCache(c cache.Cache[[]core.Round]) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.WithComponent(applog.ComponentEngine)
		}
	}
}

func NewEngine(store rounds.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		cache:  cache.Nop[[]core.Round]{},
		logger: applog.Default(applog.ComponentEngine),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add persists a validated round and returns its id.
func (e *Engine) Add(ctx context.Context, in core.RoundInput) (int64, error) {
	id, err := e.store.Insert(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("add round: %w", err)
	}
	e.cache.Purge()

	e.logger.DebugContext(ctx, "Round added",
		applog.NewFields().WithOperation(applog.OpCreate).WithRound(id, in.Course, in.Date, in.Cost, in.Score).ToSlice()...)
	return id, nil
}

// Update replaces every field of id.
func (e *Engine) Update(ctx context.Context, id int64, in core.RoundInput) error {
	if err := e.store.Update(ctx, id, in); err != nil {
		return fmt.Errorf("update round %d: %w", id, err)
	}
	e.cache.Purge()

	e.logger.InfoContext(ctx, "Round updated",
		applog.NewFields().WithOperation(applog.OpUpdate).WithRound(id, in.Course, in.Date, in.Cost, in.Score).ToSlice()...)
	return nil
}

func (e *Engine) Delete(ctx context.Context, id int64) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete round %d: %w", id, err)
	}
	e.cache.Purge()

	e.logger.InfoContext(ctx, "Round deleted", applog.FieldOperation, applog.OpDelete, applog.FieldRoundID, id)
	return nil
}

func (e *Engine) DeleteAll(ctx context.Context) (int64, error) {
	n, err := e.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all rounds: %w", err)
	}
	e.cache.Purge()

	e.logger.InfoContext(ctx, "All rounds deleted", applog.FieldOperation, applog.OpDeleteAll, applog.FieldCount, n)
	return n, nil
}

func (e *Engine) Get(ctx context.Context, id int64) (core.Round, error) {
	r, err := e.store.Get(ctx, id)
	if err != nil {
		return core.Round{}, fmt.Errorf("get round %d: %w", id, err)
	}
	return r, nil
}

// All returns every round in store order.
func (e *Engine) All(ctx context.Context) ([]core.Round, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all rounds: %w", err)
	}
	return all, nil
}

// List returns the rounds matching f ascending by date. Rounds on the same
// date keep insertion order.
func (e *Engine) List(ctx context.Context, f core.Filter) ([]core.Round, error) {
	key := f.Key()
	if cached, ok := e.cache.Get(key); ok {
		e.logger.DebugContext(ctx, "List served from cache", applog.FieldFilter, f.String(), applog.FieldCacheHit, true)
		return append([]core.Round(nil), cached...), nil
	}

	found, err := e.store.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list rounds (%s): %w", f, err)
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Date < found[j].Date })

	e.cache.Set(key, append([]core.Round(nil), found...))
	e.logger.DebugContext(ctx, "List loaded from store",
		applog.FieldFilter, f.String(), applog.FieldCount, len(found), applog.FieldCacheHit, false)
	return found, nil
}

// Stats aggregates the rounds matching f.
func (e *Engine) Stats(ctx context.Context, f core.Filter) (core.Stats, error) {
	matched, err := e.List(ctx, f)
	if err != nil {
		return core.Stats{}, err
	}
	st := core.ComputeStats(matched)
	e.logger.DebugContext(ctx, "Stats computed",
		applog.FieldOperation, applog.OpStats, applog.FieldFilter, f.String(), applog.FieldCount, st.Count)
	return st, nil
}

// Series builds one chart series over the rounds matching f.
func (e *Engine) Series(ctx context.Context, kind core.ChartKind, f core.Filter) (core.Series, error) {
	matched, err := e.List(ctx, f)
	if err != nil {
		return core.Series{}, err
	}
	s, err := core.BuildSeries(kind, matched)
	if err != nil {
		return core.Series{}, fmt.Errorf("build %s series: %w", kind, err)
	}
	e.logger.DebugContext(ctx, "Series built",
		applog.FieldOperation, applog.OpSeries, applog.FieldChartKind, string(kind), applog.FieldCount, len(s.Points))
	return s, nil
}

// AllSeries builds every chart kind from one snapshot.
func (e *Engine) AllSeries(ctx context.Context, f core.Filter) ([]core.Series, error) {
	matched, err := e.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]core.Series, 0, len(core.ChartKinds()))
	for _, kind := range core.ChartKinds() {
		s, err := core.BuildSeries(kind, matched)
		if err != nil {
			return nil, fmt.Errorf("build %s series: %w", kind, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Courses returns known course names for completion. It is best effort:
// a store failure is logged and yields no suggestions.
func (e *Engine) Courses(ctx context.Context) []string {
	courses, err := e.store.DistinctCourses(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to load course suggestions", applog.FieldError, err)
		return nil
	}
	return courses
}
