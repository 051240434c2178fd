package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadCSV reads all records. Rows may have any number of fields and a
// leading byte order mark is removed. Row i of the result is the record
// that starts on line i+1; blank lines and the continuation lines of
// multi-line records are kept as nil rows so callers can report file lines.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		for len(records) < line-1 {
			records = append(records, nil)
		}
		if line == 1 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			record = nil
		}
		records = append(records, record)
	}
	return records, nil
}

func WriteCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
