package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/classifico"
	"github.com/soundprediction/classifico/pkg/server/dto"
	"github.com/soundprediction/classifico/pkg/types"
)

// ClassifyHandler handles classification requests
type ClassifyHandler struct {
	classifier classifico.Classifier
}

// NewClassifyHandler creates a new classify handler
func NewClassifyHandler(classifier classifico.Classifier) *ClassifyHandler {
	return &ClassifyHandler{
		classifier: classifier,
	}
}

// Classify handles POST /api/v1/classify
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	candidates, err := h.classifier.ClassifySubject(c.Request.Context(), classifico.Subject{
		Label:   req.Label,
		Context: req.Context,
		Kind:    req.Kind,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "classification_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ClassifyResponse{
		Label:      req.Label,
		Candidates: candidateResults(candidates),
	})
}

// ClassifyBatch handles POST /api/v1/classify/batch
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	var req dto.ClassifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	subjects := make([]classifico.Subject, len(req.Subjects))
	for i, s := range req.Subjects {
		subjects[i] = classifico.Subject{Label: s.Label, Context: s.Context, Kind: s.Kind}
	}

	results, errs := h.classifier.ClassifyBatch(c.Request.Context(), subjects)

	response := dto.ClassifyBatchResponse{Results: make([]dto.BatchEntry, len(subjects))}
	for i := range subjects {
		entry := dto.BatchEntry{Label: subjects[i].Label}
		if errs[i] != nil {
			entry.Error = errs[i].Error()
		} else {
			entry.Candidates = candidateResults(results[i])
		}
		response.Results[i] = entry
	}

	c.JSON(http.StatusOK, response)
}

// Record handles POST /api/v1/record
func (h *ClassifyHandler) Record(c *gin.Context) {
	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if err := h.classifier.RecordClassification(c.Request.Context(), req.Path); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "record_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func candidateResults(candidates []*types.CandidatePath) []dto.CandidateResult {
	results := make([]dto.CandidateResult, len(candidates))
	for i, candidate := range candidates {
		results[i] = dto.CandidateResult{
			Path:       candidate.Path,
			Labels:     candidate.Labels,
			FinalScore: candidate.FinalScore,
			AvgScore:   candidate.AvgScore,
			Depth:      candidate.Depth,
			Matched:    candidate.Matched(),
		}
	}
	return results
}
