package services

import (
	"context"
	"errors"
	"strconv"

	"golftracker/internal/core"
	applog "golftracker/internal/log"
)

type EditState int

const (
	Idle EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

var (
	ErrNotEditing     = errors.New("no round selected for editing")
	ErrEditInProgress = errors.New("finish or cancel the current edit first")
)

// RawFields holds user-entered text before coercion.
type RawFields struct {
	Course string
	Date   string
	Cost   string
	Score  string
}

// FieldsFromRound renders r the way an editor would pre-fill it.
func FieldsFromRound(r core.Round) RawFields {
	return RawFields{
		Course: r.Course,
		Date:   r.Date,
		Cost:   strconv.FormatInt(r.Cost, 10),
		Score:  strconv.FormatInt(r.Score, 10),
	}
}

// EditTracker tracks which round, if any, is being edited. It is meant for
// a single interactive session and is not safe for concurrent use.
type EditTracker struct {
	engine       *Engine
	logger       *applog.Logger
	state        EditState
	editingID    int64
	draft        RawFields
	lastAffected int64
}

func NewEditTracker(engine *Engine) *EditTracker {
	return &EditTracker{
		engine: engine,
		logger: engine.logger.WithComponent(applog.ComponentEditor),
	}
}

func (t *EditTracker) State() EditState { return t.state }

// EditingID returns the selected id, or false when idle.
func (t *EditTracker) EditingID() (int64, bool) {
	return t.editingID, t.state == Editing
}

func (t *EditTracker) Draft() RawFields { return t.draft }

// LastAffected is the id of the most recently added or updated round, 0 if none.
func (t *EditTracker) LastAffected() int64 { return t.lastAffected }

// SelectForEdit loads id into the draft and enters Editing. An id that no
// longer exists leaves the tracker untouched and reports false.
func (t *EditTracker) SelectForEdit(ctx context.Context, id int64) (bool, error) {
	r, err := t.engine.Get(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			t.logger.DebugContext(ctx, "Selected round no longer exists", applog.FieldRoundID, id)
			return false, nil
		}
		return false, err
	}

	t.state = Editing
	t.editingID = id
	t.draft = FieldsFromRound(r)
	t.logger.DebugContext(ctx, "Editing round", applog.FieldOperation, applog.OpRead, applog.FieldRoundID, id)
	return true, nil
}

// Commit applies fields to the round being edited. On a validation or
// storage failure the tracker stays in Editing with fields as the draft.
// If the round vanished meanwhile the tracker returns to Idle.
func (t *EditTracker) Commit(ctx context.Context, fields RawFields) error {
	if t.state != Editing {
		return ErrNotEditing
	}

	in, err := core.ParseRoundInput(fields.Course, fields.Date, fields.Cost, fields.Score)
	if err != nil {
		t.draft = fields
		return err
	}

	id := t.editingID
	if err := t.engine.Update(ctx, id, in); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			t.reset()
			return err
		}
		t.draft = fields
		return err
	}

	t.lastAffected = id
	t.reset()
	return nil
}

// Cancel discards the draft and returns to Idle.
func (t *EditTracker) Cancel() {
	if t.state == Editing {
		t.logger.Debug("Edit cancelled", applog.FieldRoundID, t.editingID)
	}
	t.reset()
}

// Add records a new round from fields. It is only allowed while idle.
func (t *EditTracker) Add(ctx context.Context, fields RawFields) (int64, error) {
	if t.state == Editing {
		return 0, ErrEditInProgress
	}

	in, err := core.ParseRoundInput(fields.Course, fields.Date, fields.Cost, fields.Score)
	if err != nil {
		return 0, err
	}
	id, err := t.engine.Add(ctx, in)
	if err != nil {
		return 0, err
	}

	t.lastAffected = id
	t.logger.InfoContext(ctx, "Round added", applog.FieldRoundID, id, applog.FieldCourse, in.Course)
	return id, nil
}

func (t *EditTracker) reset() {
	t.state = Idle
	t.editingID = 0
	t.draft = RawFields{}
}
