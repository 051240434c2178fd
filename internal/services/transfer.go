package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golftracker/internal/core"
	applog "golftracker/internal/log"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Course", "Date", "Cost", "Score"}

const importColumns = 4

// ImportRows inserts every well-formed row as a new round. Row i is line
// i+1 of the source. The first row is a header and is always skipped, and
// blank rows are ignored. Short or uncoercible rows are skipped and
// reported; a storage failure stops the import and is returned together
// with what was imported so far.
func (e *Engine) ImportRows(ctx context.Context, rows [][]string) (core.ImportReport, error) {
	var report core.ImportReport
	if len(rows) == 0 {
		return report, nil
	}

	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) < importColumns {
			report.Skipped = append(report.Skipped, core.SkippedRow{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", importColumns, len(row)),
			})
			continue
		}

		in, err := core.ParseImportedRoundInput(row[0], row[1], row[2], row[3])
		if err != nil {
			report.Skipped = append(report.Skipped, core.SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		id, err := e.Add(ctx, in)
		if err != nil {
			if errors.Is(err, core.ErrValidation) {
				report.Skipped = append(report.Skipped, core.SkippedRow{Line: line, Reason: err.Error()})
				continue
			}
			return report, fmt.Errorf("import line %d: %w", line, err)
		}
		report.Imported++
		report.IDs = append(report.IDs, id)
	}

	for _, s := range report.Skipped {
		e.logger.WarnContext(ctx, "Import row skipped",
			applog.FieldOperation, applog.OpImport, applog.FieldLine, s.Line, applog.FieldReason, s.Reason)
	}
	e.logger.InfoContext(ctx, "Import finished",
		applog.FieldOperation, applog.OpImport,
		applog.FieldImported, report.Imported,
		applog.FieldSkipped, len(report.Skipped))

	return report, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ExportRows returns the header followed by every round in store order,
// without ids.
func (e *Engine) ExportRows(ctx context.Context) ([][]string, error) {
	all, err := e.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export rounds: %w", err)
	}

	rows := make([][]string, 0, len(all)+1)
	rows = append(rows, append([]string(nil), ExportHeader...))
	for _, r := range all {
		rows = append(rows, []string{
			r.Course,
			r.Date,
			strconv.FormatInt(r.Cost, 10),
			strconv.FormatInt(r.Score, 10),
		})
	}

	e.logger.InfoContext(ctx, "Export prepared", applog.FieldOperation, applog.OpExport, applog.FieldCount, len(all))
	return rows, nil
}
