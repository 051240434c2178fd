package rounds

import (
	"context"

	"golftracker/internal/core"
)

// Ports implemented by the record stores.
type (
	RoundWriter interface {
		// Insert validates and persists in, returning the new id.
		Insert(ctx context.Context, in core.RoundInput) (id int64, err error)
		// Update replaces all fields of id. Returns a *core.NotFoundError when absent.
		Update(ctx context.Context, id int64, in core.RoundInput) error
		// Delete removes id. Returns a *core.NotFoundError when absent.
		Delete(ctx context.Context, id int64) error
		// DeleteAll clears the table and returns how many rows were removed.
		DeleteAll(ctx context.Context) (int64, error)
	}

	RoundReader interface {
		Get(ctx context.Context, id int64) (core.Round, error)
		// All returns every round in insertion order.
		All(ctx context.Context) ([]core.Round, error)
		// Find returns rounds matching f, ascending by date, ties in insertion order.
		Find(ctx context.Context, f core.Filter) ([]core.Round, error)
	}

	// CourseLister feeds course name completion.
	CourseLister interface {
		DistinctCourses(ctx context.Context) ([]string, error)
	}

	Store interface {
		RoundWriter
		RoundReader
		CourseLister
	}
)
