package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ucli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"golftracker/internal/chart"
	"golftracker/internal/core"
	applog "golftracker/internal/log"
	"golftracker/internal/services"
	"golftracker/internal/transfer"
)

func roundFlags(required bool) []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{Name: "course", Aliases: []string{"c"}, Usage: "course name", Required: required},
		&ucli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "date played, YYYY-MM-DD", Required: required},
		&ucli.StringFlag{Name: "cost", Usage: "green fee in whole units", Required: required},
		&ucli.StringFlag{Name: "score", Aliases: []string{"s"}, Usage: "total strokes", Required: required},
	}
}

func (a *application) addCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "add",
		Usage:     "record a new round",
		UsageText: "golftracker add --course NAME --date YYYY-MM-DD --cost N --score N",
		Flags:     roundFlags(true),
		// suggests known courses for --course
		BashComplete: func(c *ucli.Context) {
			if err := a.open(c); err != nil {
				return
			}
			for _, course := range a.engine.Courses(c.Context) {
				fmt.Fprintln(c.App.Writer, course)
			}
		},
		Action: a.action(func(c *ucli.Context) error {
			tracker := services.NewEditTracker(a.engine)
			id, err := tracker.Add(c.Context, services.RawFields{
				Course: c.String("course"),
				Date:   c.String("date"),
				Cost:   c.String("cost"),
				Score:  c.String("score"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Added round %d\n", id)
			return nil
		}),
	}
}

func (a *application) editCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "edit",
		Usage:     "change fields of an existing round",
		ArgsUsage: "ID",
		Flags:     roundFlags(false),
		Action: a.action(func(c *ucli.Context) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}

			tracker := services.NewEditTracker(a.engine)
			ok, err := tracker.SelectForEdit(c.Context, id)
			if err != nil {
				return err
			}
			if !ok {
				return &core.NotFoundError{ID: id}
			}

			fields := tracker.Draft()
			for name, dst := range map[string]*string{
				"course": &fields.Course,
				"date":   &fields.Date,
				"cost":   &fields.Cost,
				"score":  &fields.Score,
			} {
				if c.IsSet(name) {
					*dst = c.String(name)
				}
			}

			if err := tracker.Commit(c.Context, fields); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Updated round %d\n", tracker.LastAffected())
			return nil
		}),
	}
}

func (a *application) deleteCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "delete",
		Usage:     "delete one round",
		ArgsUsage: "ID",
		Action: a.action(func(c *ucli.Context) error {
			id, err := idArg(c)
			if err != nil {
				return err
			}
			if err := a.engine.Delete(c.Context, id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Deleted round %d\n", id)
			return nil
		}),
	}
}

func (a *application) deleteAllCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "delete-all",
		Usage: "delete every round; ids are not reused afterwards",
		Flags: []ucli.Flag{
			&ucli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "confirm deletion"},
		},
		Action: a.action(func(c *ucli.Context) error {
			if !c.Bool("yes") {
				return errors.New("refusing to delete all rounds without --yes")
			}
			n, err := a.engine.DeleteAll(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Deleted %d rounds\n", n)
			return nil
		}),
	}
}

func (a *application) listCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "list",
		Usage:     "list rounds by date; * marks the best score, ! the worst",
		ArgsUsage: "[FILTER]",
		Action: a.action(func(c *ucli.Context) error {
			f := filterArg(c)
			rows, err := a.engine.List(c.Context, f)
			if err != nil {
				return err
			}
			a.logger.DebugContext(c.Context, "Listing rounds",
				applog.NewFields().WithOperation(applog.OpList).WithFilter(f.Value, f.Kind.String()).ToSlice()...)
			return writeRounds(c.App.Writer, rows, f)
		}),
	}
}

func (a *application) statsCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "stats",
		Usage:     "summarize rounds matching FILTER",
		ArgsUsage: "[FILTER]",
		Action: a.action(func(c *ucli.Context) error {
			st, err := a.engine.Stats(c.Context, filterArg(c))
			if err != nil {
				return err
			}
			return writeStats(c.App.Writer, st)
		}),
	}
}

func (a *application) chartCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "chart",
		Usage:     "render per-course bar charts as PNG",
		ArgsUsage: "[FILTER]",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Value:   string(core.AverageScore),
				Usage:   fmt.Sprintf("one of %s or all", chartKindList()),
			},
			&ucli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file for a single chart (default KIND.png)"},
			&ucli.StringFlag{Name: "out-dir", Value: ".", Usage: "output directory when --kind all"},
		},
		Action: a.action(func(c *ucli.Context) error {
			f := filterArg(c)
			opts := chart.Options{Width: a.cfg.ChartWidth, Height: a.cfg.ChartHeight}

			if c.String("kind") == "all" {
				return a.renderAllCharts(c, f, opts)
			}

			kind, err := core.ParseChartKind(c.String("kind"))
			if err != nil {
				return err
			}
			series, err := a.engine.Series(c.Context, kind, f)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = string(kind) + ".png"
			}
			if err := writeChart(out, series, opts); err != nil {
				return err
			}
			a.logChart(c, kind, out)
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
			return nil
		}),
	}
}

// renderAllCharts builds every series from one snapshot and renders them
// concurrently.
func (a *application) renderAllCharts(c *ucli.Context, f core.Filter, opts chart.Options) error {
	all, err := a.engine.AllSeries(c.Context, f)
	if err != nil {
		return err
	}

	dir := c.String("out-dir")
	paths := make([]string, len(all))
	var g errgroup.Group
	for i, series := range all {
		paths[i] = filepath.Join(dir, string(series.Kind)+".png")
		g.Go(func() error {
			if err := writeChart(paths[i], series, opts); err != nil {
				return err
			}
			a.logChart(c, series.Kind, paths[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintf(c.App.Writer, "Wrote %s\n", p)
	}
	return nil
}

func (a *application) logChart(c *ucli.Context, kind core.ChartKind, path string) {
	a.logger.WithComponent(applog.ComponentChart).InfoContext(c.Context, "Chart written",
		applog.FieldOperation, applog.OpRender,
		applog.FieldChartKind, string(kind),
		applog.FieldPath, path)
}

func (a *application) importCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "import",
		Usage:     "import rounds from a CSV or XLSX file with a header row",
		ArgsUsage: "FILE",
		Action: a.action(func(c *ucli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("import needs a FILE argument")
			}
			rows, err := transfer.ReadFile(path)
			if err != nil {
				return err
			}
			a.logger.WithComponent(applog.ComponentImport).InfoContext(c.Context, "Read import file",
				applog.FieldPath, path, applog.FieldCount, len(rows))

			report, err := a.engine.ImportRows(c.Context, rows)
			fmt.Fprintf(c.App.Writer, "Imported %d rounds, skipped %d\n", report.Imported, len(report.Skipped))
			for _, s := range report.Skipped {
				fmt.Fprintf(c.App.Writer, "  line %d: %s\n", s.Line, s.Reason)
			}
			return err
		}),
	}
}

func (a *application) exportCommand() *ucli.Command {
	return &ucli.Command{
		Name:      "export",
		Usage:     "export every round to CSV or XLSX",
		ArgsUsage: "[FILE]",
		Action: a.action(func(c *ucli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = defaultExportName(time.Now())
			}
			rows, err := a.engine.ExportRows(c.Context)
			if err != nil {
				return err
			}
			if err := transfer.WriteFile(path, rows); err != nil {
				return err
			}
			a.logger.WithComponent(applog.ComponentExport).InfoContext(c.Context, "Rounds exported", applog.FieldPath, path, applog.FieldCount, len(rows)-1)
			fmt.Fprintf(c.App.Writer, "Exported %d rounds to %s\n", len(rows)-1, path)
			return nil
		}),
	}
}

func (a *application) coursesCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "courses",
		Usage: "list known course names",
		Action: a.action(func(c *ucli.Context) error {
			for _, course := range a.engine.Courses(c.Context) {
				fmt.Fprintln(c.App.Writer, course)
			}
			return nil
		}),
	}
}

func idArg(c *ucli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%s needs exactly one ID argument", c.Command.Name)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid round id %q", c.Args().First())
	}
	return id, nil
}

func filterArg(c *ucli.Context) core.Filter {
	return core.ParseFilter(strings.Join(c.Args().Slice(), " "))
}

func defaultExportName(now time.Time) string {
	return "golf_scores_" + now.Format(core.DateLayout) + ".csv"
}

func chartKindList() string {
	kinds := core.ChartKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
