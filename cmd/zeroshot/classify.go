package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/logger"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// ClassifyAction runs one stateless classification and writes the table
func ClassifyAction(c *cli.Context) error {
	format := c.String("format")
	switch format {
	case formatTable, formatCSV, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}

	labels := c.StringSlice("label")
	if err := classifier.CheckLabelLimit(labels); err != nil {
		return err
	}

	text, err := readInput(c.String("text"), c.String("file"), os.Stdin)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithWriter(&cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	pipeline, err := newPipeline(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	outcome, err := pipeline.Run(c.Context, classifier.Submission{Text: text, Labels: labels})
	if err != nil {
		return err
	}

	for _, notice := range outcome.Notices {
		fmt.Fprintf(os.Stderr, "%s: %s\n", notice.Level, notice.Message)
	}

	out := io.Writer(os.Stdout)
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeOutcome(out, outcome, format)
}

// readInput returns --text, else the contents of --file, else stdin
func readInput(text, path string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeOutcome(w io.Writer, outcome *classifier.Outcome, format string) error {
	switch format {
	case formatCSV:
		return classifier.WriteCSV(w, outcome.Table)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome.Table)
	default:
		return writeTable(w, outcome.Table)
	}
}

func writeTable(w io.Writer, table *classifier.ResultTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(classifier.Columns, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			row.Keyphrase,
			strings.Join(row.Labels, ", "),
			strings.Join(row.ClassificationScores, ", "),
		)
	}
	return tw.Flush()
}
