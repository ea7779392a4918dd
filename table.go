package classifier

import (
	"fmt"

	"github.com/FrenchMajesty/zeroshot-classifier/types"
)

const (
	ColumnKeyphrase            = "keyphrase"
	ColumnLabels               = "labels"
	ColumnClassificationScores = "classification scores"
)

// Columns is the column order of every ResultTable
var Columns = []string{ColumnKeyphrase, ColumnLabels, ColumnClassificationScores}

// Row is one classified keyphrase
type Row struct {
	Keyphrase            string   `json:"keyphrase"`
	Labels               []string `json:"labels"`
	ClassificationScores []string `json:"classification scores"`
}

// ResultTable is the display form of a batch of classification results
type ResultTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NoticeLevel is the severity of a user-facing notice
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a message shown next to the results
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Outcome is the result of one render cycle
type Outcome struct {
	Table   *ResultTable `json:"table"`
	Notices []Notice     `json:"notices,omitempty"`
	Lines   []string     `json:"lines"`
	Labels  []string     `json:"labels"`
}

// FormatPercent formats a probability as a percentage with two decimals (0.8734 -> "87.34%")
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// BuildTable reshapes raw results into a ResultTable, one row per result in the given order.
// The sequence becomes the keyphrase and every score is formatted as a percentage.
func BuildTable(results []types.ClassificationResult) *ResultTable {
	table := &ResultTable{
		Columns: append([]string(nil), Columns...),
		Rows:    make([]Row, 0, len(results)),
	}

	for _, result := range results {
		scores := make([]string, len(result.Scores))
		for i, score := range result.Scores {
			scores[i] = FormatPercent(score)
		}

		table.Rows = append(table.Rows, Row{
			Keyphrase:            result.Sequence,
			Labels:               append([]string(nil), result.Labels...),
			ClassificationScores: scores,
		})
	}

	return table
}
