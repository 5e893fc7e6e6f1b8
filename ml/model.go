package ml

import (
	"errors"
	"fmt"
)

const (
	ModelTypeDecisionTree       = "decision_tree"
	ModelTypeLogisticRegression = "logistic_regression"
)

const (
	LabelDenied   = 0
	LabelApproved = 1
)

var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrCorruptArtifact  = errors.New("model artifact is corrupt")
	ErrSchemaMismatch   = errors.New("model schema mismatch")
	ErrUnsupportedModel = errors.New("unsupported model type")
)

// Classifier maps an ordered feature vector to a class label.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// Model is a loaded, read-only classifier plus the metadata of the artifact it came from.
type Model struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	ModelType string   `json:"model_type"`
	Inputs    []string `json:"inputs"`
	Output    string   `json:"output"`
	Source    string   `json:"source"`

	classifier Classifier
}

// NewModel wraps an already validated classifier.
func NewModel(name, version, modelType string, classifier Classifier) *Model {
	return &Model{
		Name:       name,
		Version:    version,
		ModelType:  modelType,
		Inputs:     FeatureNames(),
		Output:     OutputName,
		classifier: classifier,
	}
}

// Classify runs a forward pass. The result is always LabelDenied or LabelApproved.
func (m *Model) Classify(features []float64) (int, error) {
	if m == nil || m.classifier == nil {
		return 0, errors.New("model not loaded")
	}
	if len(features) != len(FeatureNames()) {
		return 0, fmt.Errorf("expected %d features, got %d", len(FeatureNames()), len(features))
	}
	label, err := m.classifier.Predict(features)
	if err != nil {
		return 0, err
	}
	if label != LabelDenied && label != LabelApproved {
		return 0, fmt.Errorf("model produced non-binary label %d", label)
	}
	return label, nil
}
