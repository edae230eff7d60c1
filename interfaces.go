package classifico

import (
	"context"

	"github.com/soundprediction/classifico/pkg/types"
)

// This file defines focused interfaces that follow the Interface Segregation Principle.
// The main Classifier interface is composed from these smaller interfaces.
// Consumers should depend on the smallest interface that meets their needs.

// SubjectClassifier classifies individual subjects.
type SubjectClassifier interface {
	// Classify classifies a bare subject label.
	Classify(ctx context.Context, subject string) ([]*types.CandidatePath, error)

	// ClassifySubject classifies a subject with optional context and
	// kind information.
	ClassifySubject(ctx context.Context, subject Subject) ([]*types.CandidatePath, error)
}

// BatchClassifier classifies many subjects with bounded concurrency.
type BatchClassifier interface {
	// ClassifyBatch classifies subjects in parallel. Results and errors
	// are indexed like the input.
	ClassifyBatch(ctx context.Context, subjects []Subject) ([][]*types.CandidatePath, []error)
}

// UsageReporter feeds accepted classifications back into the usage
// priors.
type UsageReporter interface {
	// RecordClassification increments usage counters for an accepted
	// classification path.
	RecordClassification(ctx context.Context, path []int64) error
}

// Ensure Classifier composes all focused interfaces.
var _ interface {
	SubjectClassifier
	BatchClassifier
	UsageReporter
} = (Classifier)(nil)
