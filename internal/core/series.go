package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ChartKind selects one of the per-course chart series.
type ChartKind string

const (
	AverageScore    ChartKind = "average_score"
	RoundsPerCourse ChartKind = "rounds_per_course"
	BestScore       ChartKind = "best_score"
)

// ChartKinds lists every kind in display order.
func ChartKinds() []ChartKind {
	return []ChartKind{AverageScore, RoundsPerCourse, BestScore}
}

func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

func (k ChartKind) Title() string {
	switch k {
	case AverageScore:
		return "Average Score per Course"
	case RoundsPerCourse:
		return "Number of Rounds per Course"
	case BestScore:
		return "Best Score per Course"
	}
	return string(k)
}

func (k ChartKind) AxisLabel() string {
	switch k {
	case AverageScore:
		return "Average Score"
	case RoundsPerCourse:
		return "Rounds Played"
	case BestScore:
		return "Best Score"
	}
	return ""
}

// SeriesPoint is one labeled bar.
type SeriesPoint struct {
	Course string
	Value  float64
}

// Series is an ordered list of per-course values. Courses with no rounds
// never appear.
type Series struct {
	Kind   ChartKind
	Points []SeriesPoint
}

type courseGroup struct {
	count int
	total int64
	best  int64
}

// BuildSeries groups rounds by exact course name and reduces each group
// according to kind. Average and best are ordered ascending, round counts
// descending; equal values fall back to course name order.
func BuildSeries(kind ChartKind, rounds []Round) (Series, error) {
	if _, err := ParseChartKind(string(kind)); err != nil {
		return Series{}, err
	}

	groups := make(map[string]*courseGroup)
	for _, r := range rounds {
		g, ok := groups[r.Course]
		if !ok {
			g = &courseGroup{best: r.Score}
			groups[r.Course] = g
		}
		g.count++
		g.total += r.Score
		if r.Score < g.best {
			g.best = r.Score
		}
	}

	points := make([]SeriesPoint, 0, len(groups))
	for course, g := range groups {
		var v float64
		switch kind {
		case AverageScore:
			v = float64(g.total) / float64(g.count)
		case RoundsPerCourse:
			v = float64(g.count)
		case BestScore:
			v = float64(g.best)
		}
		points = append(points, SeriesPoint{Course: course, Value: v})
	}

	descending := kind == RoundsPerCourse
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Value != b.Value {
			if descending {
				return a.Value > b.Value
			}
			return a.Value < b.Value
		}
		return a.Course < b.Course
	})

	return Series{Kind: kind, Points: points}, nil
}

// FormatValue renders whole numbers without decimals and anything else with two.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
