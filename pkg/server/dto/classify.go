// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// MaxLabelLength bounds subject labels accepted over HTTP.
const MaxLabelLength = 512

// MaxBatchSize bounds how many subjects one batch request may carry.
const MaxBatchSize = 100

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Label   string `json:"label" binding:"required"`
	Context string `json:"context,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// Validate performs validation on ClassifyRequest
func (r *ClassifyRequest) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("label cannot be empty")
	}
	if len(r.Label) > MaxLabelLength {
		return errors.New("label too long")
	}
	return nil
}

// ClassifyBatchRequest is the body of POST /api/v1/classify/batch.
type ClassifyBatchRequest struct {
	Subjects []ClassifyRequest `json:"subjects" binding:"required"`
}

// Validate performs validation on ClassifyBatchRequest
func (r *ClassifyBatchRequest) Validate() error {
	if len(r.Subjects) == 0 {
		return errors.New("subjects cannot be empty")
	}
	if len(r.Subjects) > MaxBatchSize {
		return errors.New("too many subjects in one batch")
	}
	for i := range r.Subjects {
		if err := r.Subjects[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CandidateResult is one classification candidate in a response.
type CandidateResult struct {
	Path       []int64  `json:"path"`
	Labels     []string `json:"labels"`
	FinalScore float64  `json:"final_score"`
	AvgScore   float64  `json:"avg_score"`
	Depth      int      `json:"depth"`
	Matched    bool     `json:"matched"`
}

// ClassifyResponse is the body returned for a single classification.
type ClassifyResponse struct {
	Label      string            `json:"label"`
	Candidates []CandidateResult `json:"candidates"`
}

// BatchEntry is one subject's outcome in a batch response.
type BatchEntry struct {
	Label      string            `json:"label"`
	Candidates []CandidateResult `json:"candidates,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ClassifyBatchResponse is the body returned for a batch classification.
type ClassifyBatchResponse struct {
	Results []BatchEntry `json:"results"`
}

// RecordRequest is the body of POST /api/v1/record.
type RecordRequest struct {
	Path []int64 `json:"path" binding:"required"`
}

// Validate performs validation on RecordRequest
func (r *RecordRequest) Validate() error {
	if len(r.Path) == 0 {
		return errors.New("path cannot be empty")
	}
	return nil
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
