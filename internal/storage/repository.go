package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golftracker/internal/core"
	"golftracker/internal/rounds"

	_ "modernc.org/sqlite"
)

var _ rounds.Store = (*SQLiteRepository)(nil)

const roundColumns = "id, course, date, cost, score"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers and keeps readers on a consistent view.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Insert implements rounds.RoundWriter
func (r *SQLiteRepository) Insert(ctx context.Context, in core.RoundInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rounds (course, date, cost, score) VALUES (?, ?, ?, ?)",
		in.Course, in.Date, in.Cost, in.Score)
	if err != nil {
		return 0, core.NewStorageError("insert round", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.NewStorageError("insert round", err)
	}

	slog.InfoContext(ctx, "Round saved to SQLite",
		"round_id", id,
		"course", in.Course,
		"date", in.Date,
		"cost", in.Cost,
		"score", in.Score)

	return id, nil
}

// Update implements rounds.RoundWriter
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in core.RoundInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE rounds SET course = ?, date = ?, cost = ?, score = ? WHERE id = ?",
		in.Course, in.Date, in.Cost, in.Score, id)
	if err != nil {
		return core.NewStorageError("update round", err)
	}
	if err := requireAffected(res, id, "update round"); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Round updated in SQLite", "round_id", id)
	return nil
}

// Delete implements rounds.RoundWriter
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rounds WHERE id = ?", id)
	if err != nil {
		return core.NewStorageError("delete round", err)
	}
	if err := requireAffected(res, id, "delete round"); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Round deleted from SQLite", "round_id", id)
	return nil
}

// DeleteAll implements rounds.RoundWriter. AUTOINCREMENT keeps the
// sqlite_sequence row, so cleared ids are not handed out again.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rounds")
	if err != nil {
		return 0, core.NewStorageError("delete all rounds", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, core.NewStorageError("delete all rounds", err)
	}

	slog.WarnContext(ctx, "All rounds deleted from SQLite", "count", n)
	return n, nil
}

// Get implements rounds.RoundReader
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Round, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+roundColumns+" FROM rounds WHERE id = ?", id)

	var rd core.Round
	if err := row.Scan(&rd.ID, &rd.Course, &rd.Date, &rd.Cost, &rd.Score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Round{}, &core.NotFoundError{ID: id}
		}
		return core.Round{}, core.NewStorageError("get round", err)
	}
	return rd, nil
}

// All implements rounds.RoundReader
func (r *SQLiteRepository) All(ctx context.Context) ([]core.Round, error) {
	return r.query(ctx, "list rounds", "SELECT "+roundColumns+" FROM rounds ORDER BY id ASC")
}

// Find implements rounds.RoundReader
func (r *SQLiteRepository) Find(ctx context.Context, f core.Filter) ([]core.Round, error) {
	where, args := whereClause(f)
	found, err := r.query(ctx, "find rounds",
		"SELECT "+roundColumns+" FROM rounds"+where+" ORDER BY date ASC, id ASC", args...)
	if err != nil || f.Kind != core.CourseSubstring {
		return found, err
	}

	matched := found[:0]
	for _, rd := range found {
		if f.Match(rd) {
			matched = append(matched, rd)
		}
	}
	return matched, nil
}

// DistinctCourses implements rounds.CourseLister
func (r *SQLiteRepository) DistinctCourses(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT course FROM rounds WHERE course <> '' ORDER BY course COLLATE NOCASE, course")
	if err != nil {
		return nil, core.NewStorageError("list courses", err)
	}
	defer rows.Close()

	var courses []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, core.NewStorageError("list courses", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("list courses", err)
	}
	return courses, nil
}

func (r *SQLiteRepository) query(ctx context.Context, op, q string, args ...any) ([]core.Round, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.NewStorageError(op, err)
	}
	defer rows.Close()

	out := []core.Round{}
	for rows.Next() {
		var rd core.Round
		if err := rows.Scan(&rd.ID, &rd.Course, &rd.Date, &rd.Cost, &rd.Score); err != nil {
			return nil, core.NewStorageError(op, err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError(op, err)
	}
	return out, nil
}

func requireAffected(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.NewStorageError(op, err)
	}
	if n == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

// whereClause compiles the date shapes into SQL; they compare prefixes of
// the YYYY-MM-DD text. Course filters are applied by Find with
// core.Filter.Match, since SQLite LIKE folds ASCII letters only.
func whereClause(f core.Filter) (string, []any) {
	switch f.Kind {
	case core.ExactDate:
		return " WHERE date = ?", []any{f.Value}
	case core.YearMonth:
		return " WHERE substr(date, 1, 7) = ?", []any{f.Value}
	case core.Year:
		return " WHERE substr(date, 1, 4) = ?", []any{f.Value}
	default:
		return "", nil
	}
}
