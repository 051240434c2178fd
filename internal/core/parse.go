// Package core provides the round domain model and the pure logic around it.
//
// This file contains the boundary coercion of form and import text into a
// fully validated RoundInput. Partially coerced values never leave it.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseRoundInput coerces form text into a RoundInput.
//
// All four fields are required and trimmed. Cost and score must be whole
// numbers ("250", not "250.5"). Returns a *ValidationError on any failure.
//
// Examples:
//
//	ParseRoundInput("Spyglass", "2024-05-15", "200", "90") -> {Spyglass 2024-05-15 200 90}, nil
//	ParseRoundInput("Spyglass", "2024-05-15", "$200", "90") -> error (cost)
func ParseRoundInput(course, date, cost, score string) (RoundInput, error) {
	return parseRoundInput(course, date, cost, score, parseWhole)
}

// ParseImportedRoundInput is the lenient variant used for imported rows:
// numbers are read as decimals and truncated toward zero ("82.9" -> 82).
func ParseImportedRoundInput(course, date, cost, score string) (RoundInput, error) {
	return parseRoundInput(course, date, cost, score, parseTruncated)
}

func parseRoundInput(course, date, cost, score string, num func(string) (int64, bool)) (RoundInput, error) {
	course = strings.TrimSpace(course)
	date = strings.TrimSpace(date)
	cost = strings.TrimSpace(cost)
	score = strings.TrimSpace(score)

	for _, f := range []struct{ name, val string }{
		{FieldCourse, course}, {FieldDate, date}, {FieldCost, cost}, {FieldScore, score},
	} {
		if f.val == "" {
			return RoundInput{}, &ValidationError{Field: f.name, Reason: "is required"}
		}
	}

	c, ok := num(cost)
	if !ok {
		return RoundInput{}, &ValidationError{Field: FieldCost, Reason: "must be a whole number"}
	}
	s, ok := num(score)
	if !ok {
		return RoundInput{}, &ValidationError{Field: FieldScore, Reason: "must be a whole number"}
	}

	in := RoundInput{Course: course, Date: date, Cost: c, Score: s}
	if err := in.Validate(); err != nil {
		return RoundInput{}, err
	}
	return in, nil
}

func parseWhole(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func parseTruncated(s string) (int64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int64(t), true
}
