package classifier

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Submission is one form submission
type Submission struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

// SplitLines splits raw text into lines, tolerating CRLF line endings
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = norm.NFC.String(strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// PrepareLines removes duplicate and empty lines, keeping first occurrences in order,
// and caps the result at maxLines. truncated reports whether lines were dropped by the cap.
func PrepareLines(text string, maxLines int) (lines []string, truncated bool) {
	seen := make(map[string]struct{})
	lines = make([]string, 0)

	for _, line := range SplitLines(text) {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}

	if maxLines > 0 && len(lines) > maxLines {
		return lines[:maxLines], true
	}
	return lines, false
}

// NormalizeLabels trims labels and drops empty and repeated ones, keeping order
func NormalizeLabels(labels []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(labels))

	for _, label := range labels {
		clean := norm.NFC.String(strings.TrimSpace(label))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}

	return out
}

// ValidateLabels checks the pipeline precondition on the label set
func ValidateLabels(labels []string) error {
	switch len(labels) {
	case 0:
		return &ValidationError{Err: ErrNoLabels}
	case 1:
		return &ValidationError{Err: ErrSingleLabel}
	}
	return nil
}

// CheckLabelLimit rejects label sets larger than the form accepts
func CheckLabelLimit(labels []string) error {
	if len(NormalizeLabels(labels)) > MaxLabels {
		return &ValidationError{Err: ErrTooManyLabels}
	}
	return nil
}

// ValidateSubmission checks a submission in form order: text first, then labels
func ValidateSubmission(sub Submission, lines []string) error {
	if sub.Text == "" || len(lines) == 0 {
		return &ValidationError{Err: ErrEmptyText}
	}
	return ValidateLabels(NormalizeLabels(sub.Labels))
}

// TruncationNotice is shown when more than maxLines keyphrases were submitted
func TruncationNotice(maxLines int) Notice {
	return Notice{
		Level:   NoticeInfo,
		Message: fmt.Sprintf("Only the first %d keyphrases will be reviewed.", maxLines),
	}
}
