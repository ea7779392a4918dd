package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/FrenchMajesty/zeroshot-classifier/adapters"
	"github.com/FrenchMajesty/zeroshot-classifier/internal/metrics"
	"github.com/FrenchMajesty/zeroshot-classifier/types"
	"go.uber.org/zap"
)

// Pipeline turns keyphrases and candidate labels into a ResultTable, one remote call per keyphrase
type Pipeline struct {
	client   ZeroShotClient
	maxLines int
	logger   *zap.Logger
}

// NewPipeline creates a new Pipeline with the given configuration
func NewPipeline(cfg Config) (*Pipeline, error) {
	cfg.applyDefaults()

	var client ZeroShotClient
	if cfg.Client != nil {
		client = cfg.Client
	} else {
		adapter, err := adapters.NewHuggingFaceZeroShotAdapter(cfg.APIToken, cfg.Model, cfg.BaseURL, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create default zero-shot client: %w", err)
		}
		client = adapter
	}

	return &Pipeline{
		client:   client,
		maxLines: cfg.MaxLines,
		logger:   cfg.Logger,
	}, nil
}

// MaxLines returns the number of keyphrases reviewed per submission
func (p *Pipeline) MaxLines() int {
	return p.maxLines
}

// Classify scores every line against labels and returns the normalized table.
// Lines are sent strictly in order, one at a time; the first failure aborts the batch
// with a RemoteServiceError holding the rows collected so far.
func (p *Pipeline) Classify(ctx context.Context, lines []string, labels []string) (*ResultTable, error) {
	if len(lines) == 0 {
		return nil, &ValidationError{Err: ErrEmptyText}
	}
	if err := ValidateLabels(labels); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]types.ClassificationResult, 0, len(lines))

	for i, line := range lines {
		callStart := time.Now()
		result, err := p.client.ZeroShot(ctx, line, labels)
		metrics.ObserveInference(callStart, err)
		if err != nil {
			p.logger.Error("zero-shot classification failed",
				zap.Int("index", i),
				zap.Int("completed", len(results)),
				zap.Int("total", len(lines)),
				zap.Error(err),
			)
			return nil, &RemoteServiceError{
				Index:   i,
				Line:    line,
				Partial: BuildTable(results),
				Err:     err,
			}
		}

		p.logger.Debug("keyphrase classified", zap.Int("index", i), zap.Strings("labels", result.Labels))
		results = append(results, *result)
	}

	p.logger.Info("classification batch completed",
		zap.Int("lines", len(lines)),
		zap.Int("labels", len(labels)),
		zap.Duration("duration", time.Since(start)),
	)

	return BuildTable(results), nil
}

// Prepare validates a submission and returns the lines and labels to classify, with any notices
func (p *Pipeline) Prepare(sub Submission) ([]string, []string, []Notice, error) {
	lines, truncated := PrepareLines(sub.Text, p.maxLines)

	var notices []Notice
	if truncated {
		notices = append(notices, TruncationNotice(p.maxLines))
	}

	if err := ValidateSubmission(sub, lines); err != nil {
		return nil, nil, notices, err
	}

	return lines, NormalizeLabels(sub.Labels), notices, nil
}

// Run validates and classifies a single submission without session state
func (p *Pipeline) Run(ctx context.Context, sub Submission) (*Outcome, error) {
	lines, labels, notices, err := p.Prepare(sub)
	if err != nil {
		return nil, err
	}

	table, err := p.Classify(ctx, lines, labels)
	if err != nil {
		return nil, err
	}

	return &Outcome{Table: table, Notices: notices, Lines: lines, Labels: labels}, nil
}

// Render runs one render cycle against the session state.
// A nil submission is a re-render: it reuses the last accepted inputs, or returns
// ErrAwaitingInput when none were accepted. A rejected submission resets the session flag.
func (p *Pipeline) Render(ctx context.Context, session *types.Session, sub *Submission) (*Outcome, error) {
	if sub == nil && !session.ValidInputsReceived {
		return nil, ErrAwaitingInput
	}

	if sub != nil {
		if _, _, _, err := p.Prepare(*sub); err != nil {
			session.ValidInputsReceived = false
			session.UpdatedAt = time.Now()
			return nil, err
		}
		session.ValidInputsReceived = true
		session.Text = sub.Text
		session.Labels = append([]string(nil), sub.Labels...)
		session.UpdatedAt = time.Now()
	}

	return p.Run(ctx, Submission{Text: session.Text, Labels: session.Labels})
}
