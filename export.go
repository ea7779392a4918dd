package classifier

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

const (
	ExportFileName    = "results.csv"
	ExportContentType = "text/csv; charset=utf-8"
)

// WriteCSV writes the table as UTF-8 CSV with a leading unnamed row index column.
// List cells are encoded as JSON arrays.
func WriteCSV(w io.Writer, table *ResultTable) error {
	writer := csv.NewWriter(w)

	header := append([]string{""}, Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	if table != nil {
		for i, row := range table.Rows {
			labels, err := json.Marshal(row.Labels)
			if err != nil {
				return fmt.Errorf("failed to encode labels of row %d: %w", i, err)
			}
			scores, err := json.Marshal(row.ClassificationScores)
			if err != nil {
				return fmt.Errorf("failed to encode scores of row %d: %w", i, err)
			}

			record := []string{strconv.Itoa(i), row.Keyphrase, string(labels), string(scores)}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row %d: %w", i, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
