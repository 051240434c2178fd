package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golftracker/internal/chart"
	"golftracker/internal/core"
)

func writeRounds(w io.Writer, rows []core.Round, f core.Filter) error {
	if len(rows) == 0 {
		if f.IsActive() {
			_, err := fmt.Fprintf(w, "No rounds match %q.\n", f.Value)
			return err
		}
		_, err := fmt.Fprintln(w, chart.NoDataMessage)
		return err
	}

	st := core.ComputeStats(rows)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOURSE\tDATE\tCOST\tSCORE\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", r.ID, r.Course, r.Date, r.Cost, r.Score, mark(r.Score, st))
	}
	return tw.Flush()
}

// mark flags the lowest score with * and the highest with !.
func mark(score int64, st core.Stats) string {
	var m string
	if st.MinScore.Valid && score == st.MinScore.Value {
		m += "*"
	}
	if st.MaxScore.Valid && score == st.MaxScore.Value && st.MaxScore.Value != st.MinScore.Value {
		m += "!"
	}
	return m
}

func writeStats(w io.Writer, st core.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Rounds:\t%d\n", st.Count)
	fmt.Fprintf(tw, "Total cost:\t%d\n", st.TotalCost)
	fmt.Fprintf(tw, "Average cost:\t%.2f\n", st.AvgCost)
	fmt.Fprintf(tw, "Average score:\t%.2f\n", st.AvgScore)
	fmt.Fprintf(tw, "Best score:\t%s\n", st.MinScore)
	fmt.Fprintf(tw, "Worst score:\t%s\n", st.MaxScore)
	return tw.Flush()
}

func writeChart(path string, series core.Series, opts chart.Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return chart.Render(f, series, opts)
}
