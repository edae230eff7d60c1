package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/classifico"
	"github.com/soundprediction/classifico/pkg/server/dto"
	"github.com/soundprediction/classifico/pkg/types"
)

// stubClassifier returns canned candidates and records calls.
type stubClassifier struct {
	candidates []*types.CandidatePath
	err        error
	recorded   [][]int64
}

func (s *stubClassifier) Classify(ctx context.Context, subject string) ([]*types.CandidatePath, error) {
	return s.ClassifySubject(ctx, classifico.Subject{Label: subject})
}

func (s *stubClassifier) ClassifySubject(ctx context.Context, subject classifico.Subject) ([]*types.CandidatePath, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

func (s *stubClassifier) ClassifyBatch(ctx context.Context, subjects []classifico.Subject) ([][]*types.CandidatePath, []error) {
	results := make([][]*types.CandidatePath, len(subjects))
	errs := make([]error, len(subjects))
	for i, subject := range subjects {
		results[i], errs[i] = s.ClassifySubject(ctx, subject)
	}
	return results, errs
}

func (s *stubClassifier) RecordClassification(ctx context.Context, path []int64) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, path)
	return nil
}

func (s *stubClassifier) Close() error { return nil }

func classifyRouter(classifier classifico.Classifier) *gin.Engine {
	handler := NewClassifyHandler(classifier)
	router := gin.New()
	router.POST("/api/v1/classify", handler.Classify)
	router.POST("/api/v1/classify/batch", handler.ClassifyBatch)
	router.POST("/api/v1/record", handler.Record)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func sampleCandidates() []*types.CandidatePath {
	return []*types.CandidatePath{
		{
			Path:       []int64{1, 2, 5},
			Labels:     []string{"entity", "organization", "university"},
			FinalScore: 2.4,
			AvgScore:   1.2,
			Depth:      2,
			Assignments: []types.HintAssignment{
				{NodeID: 5, HintIndex: 0, Affinity: 0.9},
			},
		},
	}
}

func TestClassifyEndpoint(t *testing.T) {
	router := classifyRouter(&stubClassifier{candidates: sampleCandidates()})

	w := postJSON(t, router, "/api/v1/classify", dto.ClassifyRequest{Label: "Stanford University"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response dto.ClassifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Label != "Stanford University" {
		t.Errorf("expected label echoed back, got %q", response.Label)
	}
	if len(response.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(response.Candidates))
	}
	if !response.Candidates[0].Matched {
		t.Error("expected matched candidate")
	}
	if response.Candidates[0].Depth != 2 {
		t.Errorf("expected depth 2, got %d", response.Candidates[0].Depth)
	}
}

func TestClassifyEndpointInvalidBody(t *testing.T) {
	router := classifyRouter(&stubClassifier{})

	w := postJSON(t, router, "/api/v1/classify", map[string]string{"label": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestClassifyEndpointFailure(t *testing.T) {
	router := classifyRouter(&stubClassifier{err: errors.New("engine down")})

	w := postJSON(t, router, "/api/v1/classify", dto.ClassifyRequest{Label: "subject"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var response dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "classification_failed" {
		t.Errorf("expected classification_failed, got %q", response.Error)
	}
}

func TestClassifyBatchEndpoint(t *testing.T) {
	router := classifyRouter(&stubClassifier{candidates: sampleCandidates()})

	w := postJSON(t, router, "/api/v1/classify/batch", dto.ClassifyBatchRequest{
		Subjects: []dto.ClassifyRequest{{Label: "a"}, {Label: "b"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response dto.ClassifyBatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(response.Results))
	}
	for _, entry := range response.Results {
		if entry.Error != "" {
			t.Errorf("unexpected entry error: %s", entry.Error)
		}
		if len(entry.Candidates) != 1 {
			t.Errorf("expected 1 candidate for %s, got %d", entry.Label, len(entry.Candidates))
		}
	}
}

func TestClassifyBatchEndpointTooLarge(t *testing.T) {
	router := classifyRouter(&stubClassifier{})

	subjects := make([]dto.ClassifyRequest, dto.MaxBatchSize+1)
	for i := range subjects {
		subjects[i].Label = "x"
	}
	w := postJSON(t, router, "/api/v1/classify/batch", dto.ClassifyBatchRequest{Subjects: subjects})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRecordEndpoint(t *testing.T) {
	classifier := &stubClassifier{}
	router := classifyRouter(classifier)

	w := postJSON(t, router, "/api/v1/record", dto.RecordRequest{Path: []int64{1, 2, 5}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if len(classifier.recorded) != 1 {
		t.Fatalf("expected 1 recorded path, got %d", len(classifier.recorded))
	}
	if len(classifier.recorded[0]) != 3 {
		t.Errorf("unexpected recorded path %v", classifier.recorded[0])
	}
}

func TestRecordEndpointEmptyPath(t *testing.T) {
	router := classifyRouter(&stubClassifier{})

	w := postJSON(t, router, "/api/v1/record", map[string]any{"path": []int64{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
