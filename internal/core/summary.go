package core

import "strconv"

// OptionalScore is a score that may be unavailable. Zero is a valid score,
// so absence is carried explicitly.
type OptionalScore struct {
	Value int64
	Valid bool
}

func (o OptionalScore) String() string {
	if !o.Valid {
		return "--"
	}
	return strconv.FormatInt(o.Value, 10)
}

// Stats aggregates a matched round set.
//
// Averages over an empty set are reported as 0; use Empty to tell that
// apart from a real zero average.
type Stats struct {
	Count     int
	TotalCost int64
	AvgCost   float64
	AvgScore  float64
	MinScore  OptionalScore
	MaxScore  OptionalScore
}

// Empty reports whether no rounds matched.
func (s Stats) Empty() bool {
	return s.Count == 0
}

// ComputeStats aggregates rounds in a single pass.
func ComputeStats(rounds []Round) Stats {
	var st Stats
	var totalScore int64
	for _, r := range rounds {
		st.Count++
		st.TotalCost += r.Cost
		totalScore += r.Score
		if !st.MinScore.Valid || r.Score < st.MinScore.Value {
			st.MinScore = OptionalScore{Value: r.Score, Valid: true}
		}
		if !st.MaxScore.Valid || r.Score > st.MaxScore.Value {
			st.MaxScore = OptionalScore{Value: r.Score, Valid: true}
		}
	}
	if st.Count > 0 {
		st.AvgCost = float64(st.TotalCost) / float64(st.Count)
		st.AvgScore = float64(totalScore) / float64(st.Count)
	}
	return st
}

// SkippedRow records an import row that was not inserted.
type SkippedRow struct {
	Line   int // 1-based, header included
	Reason string
}

// ImportReport summarizes a lenient import.
type ImportReport struct {
	Imported int
	IDs      []int64
	Skipped  []SkippedRow
}
