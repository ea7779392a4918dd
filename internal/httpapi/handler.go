package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/zeroshot-classifier"
)

// DefaultLabels are preselected in a fresh form
var DefaultLabels = []string{"Transactional", "Informational"}

// SuggestedLabels are offered as quick picks next to free-form labels
var SuggestedLabels = []string{"Navigational", "Transactional", "Informational", "Positive", "Negative", "Neutral"}

// SampleText prefills the keyphrase box of a fresh form
var SampleText = strings.Join([]string{
	"I want to buy something in this store",
	"How to ask a question about a product",
	"Request a refund through the Google Play store",
	"I have a broken screen, what should I do?",
	"Can I have the link to the product?",
}, "\n")

// FormDefaults is the payload of GET /api/v1/form
type FormDefaults struct {
	Text            string   `json:"text"`
	Labels          []string `json:"labels"`
	SuggestedLabels []string `json:"suggested_labels"`
	MaxLines        int      `json:"max_lines"`
	MaxLabels       int      `json:"max_labels"`
}

// ClassifyRequest is the form submission body
type ClassifyRequest struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

// AwaitingInput is returned by the results endpoint before any valid submission
type AwaitingInput struct {
	AwaitingInput bool `json:"awaiting_input"`
}

// Handler serves the classification form endpoints
type Handler struct {
	pipeline *classifier.Pipeline
	logger   *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(pipeline *classifier.Pipeline, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pipeline: pipeline, logger: logger}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Form handles GET /api/v1/form
func (h *Handler) Form(c *gin.Context) {
	respondSuccess(c, http.StatusOK, FormDefaults{
		Text:            SampleText,
		Labels:          DefaultLabels,
		SuggestedLabels: SuggestedLabels,
		MaxLines:        h.pipeline.MaxLines(),
		MaxLabels:       classifier.MaxLabels,
	})
}

// Classify handles POST /api/v1/classify without touching session state
func (h *Handler) Classify(c *gin.Context) {
	sub, ok := h.bindSubmission(c)
	if !ok {
		return
	}

	outcome, err := h.pipeline.Run(c.Request.Context(), *sub)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.respondOutcome(c, outcome)
}

// Submit handles POST /api/v1/session/submit
func (h *Handler) Submit(c *gin.Context) {
	session := sessionFrom(c)

	sub, ok := h.bindSubmission(c)
	if !ok {
		session.ValidInputsReceived = false
		return
	}

	outcome, err := h.pipeline.Render(c.Request.Context(), session, sub)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.respondOutcome(c, outcome)
}

// Results handles GET /api/v1/session/results
func (h *Handler) Results(c *gin.Context) {
	outcome, err := h.pipeline.Render(c.Request.Context(), sessionFrom(c), nil)
	if errors.Is(err, classifier.ErrAwaitingInput) {
		respondSuccess(c, http.StatusOK, AwaitingInput{AwaitingInput: true})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, outcome)
}

// ResultsCSV handles GET /api/v1/session/results.csv
func (h *Handler) ResultsCSV(c *gin.Context) {
	outcome, err := h.pipeline.Render(c.Request.Context(), sessionFrom(c), nil)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.writeCSV(c, outcome.Table)
}

// bindSubmission decodes the body and applies the form's label limit
func (h *Handler) bindSubmission(c *gin.Context) (*classifier.Submission, bool) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return nil, false
	}

	if err := classifier.CheckLabelLimit(req.Labels); err != nil {
		h.fail(c, err)
		return nil, false
	}

	return &classifier.Submission{Text: req.Text, Labels: req.Labels}, true
}

func (h *Handler) respondOutcome(c *gin.Context, outcome *classifier.Outcome) {
	if c.Query("format") == "csv" {
		h.writeCSV(c, outcome.Table)
		return
	}
	respondSuccess(c, http.StatusOK, outcome)
}

func (h *Handler) writeCSV(c *gin.Context, table *classifier.ResultTable) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", classifier.ExportFileName))
	c.Header("Content-Type", classifier.ExportContentType)
	c.Status(http.StatusOK)

	if err := classifier.WriteCSV(c.Writer, table); err != nil {
		h.logger.Error("failed to write csv export", zap.Error(err))
		_ = c.Error(err)
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	if !classifier.IsValidationError(err) {
		_ = c.Error(err)
	}
	HandlePipelineError(c, err)
}
