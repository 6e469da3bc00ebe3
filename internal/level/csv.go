package level

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads a comma separated tile grid.
// Rows keep their own length; cells are trimmed of surrounding spaces.
func ParseCSV(r io.Reader) (Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Ragged rows are allowed
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("level: csv: %w", err)
	}

	grid := make(Grid, len(records))
	for i, rec := range records {
		row := make([]Token, len(rec))
		for j, cell := range rec {
			row[j] = strings.TrimSpace(cell)
		}
		grid[i] = row
	}
	return grid, nil
}

// ParseCSVString is ParseCSV over an in-memory string.
func ParseCSVString(s string) (Grid, error) {
	return ParseCSV(strings.NewReader(s))
}
