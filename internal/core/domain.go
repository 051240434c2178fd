package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the on-disk and comparison format for round dates.
const DateLayout = "2006-01-02"

const maxCourseLength = 200

type (
	// Round is one recorded round of golf. ID is assigned by the store.
	Round struct {
		ID     int64
		Course string
		Date   string // YYYY-MM-DD
		Cost   int64  // whole currency units
		Score  int64
	}

	// RoundInput is a fully coerced, not yet persisted round.
	RoundInput struct {
		Course string
		Date   string
		Cost   int64
		Score  int64
	}
)

// Input returns the mutable fields of r.
func (r Round) Input() RoundInput {
	return RoundInput{Course: r.Course, Date: r.Date, Cost: r.Cost, Score: r.Score}
}

// WithID builds the stored form of in.
func (in RoundInput) WithID(id int64) Round {
	return Round{ID: id, Course: in.Course, Date: in.Date, Cost: in.Cost, Score: in.Score}
}

func (in RoundInput) Validate() error {
	if strings.TrimSpace(in.Course) == "" {
		return &ValidationError{Field: FieldCourse, Reason: "is required"}
	}
	if utf8.RuneCountInString(in.Course) > maxCourseLength {
		return &ValidationError{Field: FieldCourse, Reason: "too long (max 200 characters)"}
	}
	if strings.TrimSpace(in.Date) == "" {
		return &ValidationError{Field: FieldDate, Reason: "is required"}
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return &ValidationError{Field: FieldDate, Reason: "must be a calendar date formatted YYYY-MM-DD"}
	}
	if in.Cost < 0 {
		return &ValidationError{Field: FieldCost, Reason: "must not be negative"}
	}
	if in.Score < 0 {
		return &ValidationError{Field: FieldScore, Reason: "must not be negative"}
	}
	return nil
}
