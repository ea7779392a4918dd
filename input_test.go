package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{""}, SplitLines(""))

	// decomposed e + combining acute is composed to a single rune
	assert.Equal(t, []string{"caf\u00e9"}, SplitLines("cafe\u0301"))
}

func TestPrepareLines(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLines  int
		want      []string
		truncated bool
	}{
		{"empty", "", 5, []string{}, false},
		{"blank lines only", "\n\n\n", 5, []string{}, false},
		{"keeps first occurrence", "b\na\nb\nc\na", 5, []string{"b", "a", "c"}, false},
		{"whitespace is significant", "a\n a\na ", 5, []string{"a", " a", "a "}, false},
		{"exactly the cap", "1\n2\n3\n4\n5", 5, []string{"1", "2", "3", "4", "5"}, false},
		{"over the cap", "1\n2\n3\n4\n5\n6\n7", 5, []string{"1", "2", "3", "4", "5"}, true},
		{"duplicates do not count toward the cap", "1\n1\n2\n2\n3\n4\n5", 5, []string{"1", "2", "3", "4", "5"}, false},
		{"no cap", "1\n2\n3", 0, []string{"1", "2", "3"}, false},
		{"canonically equal lines dedupe", "cafe\u0301\ncaf\u00e9", 5, []string{"caf\u00e9"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := PrepareLines(tt.text, tt.maxLines)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestNormalizeLabels(t *testing.T) {
	got := NormalizeLabels([]string{" Positive ", "", "Negative", "Positive", "  "})
	assert.Equal(t, []string{"Positive", "Negative"}, got)
	assert.Empty(t, NormalizeLabels(nil))
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		wantErr error
	}{
		{"empty text", Submission{Text: "", Labels: []string{"a", "b"}}, ErrEmptyText},
		{"only newlines", Submission{Text: "\n\n", Labels: []string{"a", "b"}}, ErrEmptyText},
		{"no labels", Submission{Text: "x"}, ErrNoLabels},
		{"blank labels", Submission{Text: "x", Labels: []string{" ", ""}}, ErrNoLabels},
		{"one label", Submission{Text: "x", Labels: []string{"a"}}, ErrSingleLabel},
		{"repeated label counts once", Submission{Text: "x", Labels: []string{"a", "a"}}, ErrSingleLabel},
		{"two labels", Submission{Text: "x", Labels: []string{"a", "b"}}, nil},
		{"three labels", Submission{Text: "x", Labels: []string{"a", "b", "c"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, _ := PrepareLines(tt.sub.Text, DefaultMaxLines)
			err := ValidateSubmission(tt.sub, lines)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCheckLabelLimit(t *testing.T) {
	assert.NoError(t, CheckLabelLimit([]string{"a", "b", "c"}))
	assert.NoError(t, CheckLabelLimit([]string{"a", "b", "c", "a", " "}))

	err := CheckLabelLimit([]string{"a", "b", "c", "d"})
	assert.ErrorIs(t, err, ErrTooManyLabels)
	assert.True(t, IsValidationError(err))
}

func TestTruncationNotice(t *testing.T) {
	notice := TruncationNotice(5)
	assert.Equal(t, NoticeInfo, notice.Level)
	assert.Equal(t, "Only the first 5 keyphrases will be reviewed.", notice.Message)
}
