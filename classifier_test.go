package classifier_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
	"github.com/FrenchMajesty/zeroshot-classifier/pkg/testutil"
	"github.com/FrenchMajesty/zeroshot-classifier/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, client classifier.ZeroShotClient) *classifier.Pipeline {
	t.Helper()
	p, err := classifier.NewPipeline(classifier.Config{Client: client})
	require.NoError(t, err)
	return p
}

// TestPipeline_Run_TwoKeyphrases checks that every line gets one remote call, in order
func TestPipeline_Run_TwoKeyphrases(t *testing.T) {
	mock := &testutil.MockZeroShotClient{
		ZeroShotFunc: func(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
			if text == "I want to buy something" {
				return &types.ClassificationResult{
					Sequence: text,
					Labels:   []string{"Transactional", "Informational"},
					Scores:   []float64{0.8734215, 0.1265785},
				}, nil
			}
			return &types.ClassificationResult{
				Sequence: text,
				Labels:   []string{"Informational", "Transactional"},
				Scores:   []float64{0.7, 0.3},
			}, nil
		},
	}
	p := newPipeline(t, mock)

	outcome, err := p.Run(context.Background(), classifier.Submission{
		Text:   "I want to buy something\nHow do I get a refund",
		Labels: []string{"Transactional", "Informational"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"I want to buy something", "How do I get a refund"}, mock.Snapshot())
	assert.Equal(t, []string{"Transactional", "Informational"}, mock.LastLabels)
	assert.Empty(t, outcome.Notices)

	table := outcome.Table
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"keyphrase", "labels", "classification scores"}, table.Columns)

	assert.Equal(t, "I want to buy something", table.Rows[0].Keyphrase)
	assert.Equal(t, []string{"Transactional", "Informational"}, table.Rows[0].Labels)
	assert.Equal(t, []string{"87.34%", "12.66%"}, table.Rows[0].ClassificationScores)

	assert.Equal(t, "How do I get a refund", table.Rows[1].Keyphrase)
	assert.Equal(t, []string{"70.00%", "30.00%"}, table.Rows[1].ClassificationScores)
}

func TestPipeline_Run_SingleLabel(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	outcome, err := p.Run(context.Background(), classifier.Submission{
		Text:   "I want to buy something",
		Labels: []string{"Transactional"},
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, classifier.ErrSingleLabel)
	assert.True(t, classifier.IsValidationError(err))
	assert.Equal(t, 0, mock.CallCount)
}

func TestPipeline_Run_NoLabels(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	_, err := p.Run(context.Background(), classifier.Submission{Text: "hello"})
	assert.ErrorIs(t, err, classifier.ErrNoLabels)
	assert.Equal(t, 0, mock.CallCount)
}

func TestPipeline_Run_EmptyText(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	for _, text := range []string{"", "\n\n", "\r\n"} {
		_, err := p.Run(context.Background(), classifier.Submission{
			Text:   text,
			Labels: []string{"a", "b"},
		})
		assert.ErrorIs(t, err, classifier.ErrEmptyText, "text %q", text)
	}
	assert.Equal(t, 0, mock.CallCount)
}

func TestPipeline_Run_TextCheckedBeforeLabels(t *testing.T) {
	p := newPipeline(t, &testutil.MockZeroShotClient{})

	_, err := p.Run(context.Background(), classifier.Submission{Text: ""})
	assert.ErrorIs(t, err, classifier.ErrEmptyText)
}

func TestPipeline_Run_Truncation(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	text := "l1\nl2\nl3\nl4\nl5\nl6\nl7"
	outcome, err := p.Run(context.Background(), classifier.Submission{
		Text:   text,
		Labels: []string{"a", "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, mock.CallCount)
	assert.Equal(t, []string{"l1", "l2", "l3", "l4", "l5"}, mock.Snapshot())
	assert.Equal(t, 5, outcome.Table.Len())
	require.Len(t, outcome.Notices, 1)
	assert.Equal(t, classifier.NoticeInfo, outcome.Notices[0].Level)
	assert.Equal(t, "Only the first 5 keyphrases will be reviewed.", outcome.Notices[0].Message)
}

func TestPipeline_Run_DuplicatesAndBlankLines(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	outcome, err := p.Run(context.Background(), classifier.Submission{
		Text:   "a\n\nb\na\nc\nb\n",
		Labels: []string{"x", "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, mock.Snapshot())
	assert.Equal(t, []string{"a", "b", "c"}, outcome.Lines)
	assert.Empty(t, outcome.Notices)
}

func TestPipeline_Run_CustomMaxLines(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p, err := classifier.NewPipeline(classifier.Config{Client: mock, MaxLines: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.MaxLines())

	outcome, err := p.Run(context.Background(), classifier.Submission{
		Text:   "a\nb\nc",
		Labels: []string{"x", "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount)
	require.Len(t, outcome.Notices, 1)
	assert.Contains(t, outcome.Notices[0].Message, "first 2 keyphrases")
}

func TestPipeline_Classify_RemoteFailureKeepsPartialRows(t *testing.T) {
	remoteErr := errors.New("503 service unavailable")
	mock := &testutil.MockZeroShotClient{
		ZeroShotFunc: func(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
			if text == "third" {
				return nil, remoteErr
			}
			return testutil.UniformResult(text, labels), nil
		},
	}
	p := newPipeline(t, mock)

	table, err := p.Classify(context.Background(), []string{"first", "second", "third", "fourth"}, []string{"a", "b"})
	require.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, remoteErr)
	assert.False(t, classifier.IsValidationError(err))

	var remote *classifier.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 2, remote.Index)
	assert.Equal(t, "third", remote.Line)
	require.Equal(t, 2, remote.Partial.Len())
	assert.Equal(t, "first", remote.Partial.Rows[0].Keyphrase)
	assert.Equal(t, "second", remote.Partial.Rows[1].Keyphrase)

	// the batch stops at the failure
	assert.Equal(t, 3, mock.CallCount)
}

func TestPipeline_Classify_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &testutil.MockZeroShotClient{
		ZeroShotFunc: func(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
			cancel()
			return nil, ctx.Err()
		},
	}
	p := newPipeline(t, mock)

	_, err := p.Classify(ctx, []string{"a", "b"}, []string{"x", "y"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount)
}

func TestPipeline_Classify_RowsFollowInputOrder(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)

	lines := []string{"z", "y", "x", "w"}
	table, err := p.Classify(context.Background(), lines, []string{"a", "b", "c"})
	require.NoError(t, err)

	for i, line := range lines {
		assert.Equal(t, line, table.Rows[i].Keyphrase)
		assert.Len(t, table.Rows[i].Labels, 3)
		assert.Len(t, table.Rows[i].ClassificationScores, 3)
	}
}

func TestNewPipeline_DefaultClientNeedsToken(t *testing.T) {
	t.Setenv("ZEROSHOT_INFERENCE_API_TOKEN", "")
	t.Setenv("HF_API_TOKEN", "")
	t.Setenv("API_TOKEN", "")

	_, err := classifier.NewPipeline(classifier.Config{})
	require.Error(t, err)

	token := "hf_token"
	p, err := classifier.NewPipeline(classifier.Config{APIToken: &token})
	require.NoError(t, err)
	assert.Equal(t, classifier.DefaultMaxLines, p.MaxLines())
}

// TestPipeline_Render_SessionFlag walks a session through the render cycle
func TestPipeline_Render_SessionFlag(t *testing.T) {
	mock := &testutil.MockZeroShotClient{}
	p := newPipeline(t, mock)
	ctx := context.Background()
	session := classifier.NewSession()

	// nothing submitted yet
	_, err := p.Render(ctx, session, nil)
	assert.ErrorIs(t, err, classifier.ErrAwaitingInput)
	assert.Equal(t, 0, mock.CallCount)

	// accepted submission
	outcome, err := p.Render(ctx, session, &classifier.Submission{
		Text:   "buy shoes\nshoe sizes",
		Labels: []string{"Transactional", "Informational"},
	})
	require.NoError(t, err)
	assert.True(t, session.ValidInputsReceived)
	assert.Equal(t, 2, outcome.Table.Len())
	assert.Equal(t, 2, mock.CallCount)

	// re-render reuses the accepted inputs and calls the service again
	outcome, err = p.Render(ctx, session, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Table.Len())
	assert.Equal(t, 4, mock.CallCount)

	// rejected submission resets the flag
	_, err = p.Render(ctx, session, &classifier.Submission{
		Text:   "buy shoes",
		Labels: []string{"Transactional"},
	})
	assert.ErrorIs(t, err, classifier.ErrSingleLabel)
	assert.False(t, session.ValidInputsReceived)
	assert.Equal(t, 4, mock.CallCount)

	_, err = p.Render(ctx, session, nil)
	assert.ErrorIs(t, err, classifier.ErrAwaitingInput)
}

func TestPipeline_Render_RemoteFailureKeepsFlag(t *testing.T) {
	mock := &testutil.MockZeroShotClient{
		ZeroShotFunc: func(ctx context.Context, text string, labels []string) (*types.ClassificationResult, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	p := newPipeline(t, mock)
	session := classifier.NewSession()

	_, err := p.Render(context.Background(), session, &classifier.Submission{
		Text:   "a",
		Labels: []string{"x", "y"},
	})
	var remote *classifier.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 0, remote.Partial.Len())
	assert.True(t, session.ValidInputsReceived)
}
