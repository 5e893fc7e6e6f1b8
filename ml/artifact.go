package ml

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputName is the single label column every artifact must declare.
const OutputName = "approved"

var featureNames = []string{"age", "income", "credit_score"}

// FeatureNames returns the input columns in the order the model expects them.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// Artifact is the on-disk envelope of a trained classifier.
type Artifact struct {
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	ModelType string          `json:"model_type"`
	Inputs    []string        `json:"inputs"`
	Output    string          `json:"output"`
	Classes   []int           `json:"classes"`
	Tree      []TreeNode      `json:"tree,omitempty"`
	Logistic  *LogisticParams `json:"logistic,omitempty"`
}

// DecodeArtifact parses an artifact payload and checks its declared schema.
func DecodeArtifact(payload []byte) (*Artifact, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptArtifact)
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}
	if err := artifact.checkSchema(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (a *Artifact) checkSchema() error {
	if len(a.Inputs) != len(featureNames) {
		return fmt.Errorf("%w: expected %d inputs, artifact declares %d", ErrSchemaMismatch, len(featureNames), len(a.Inputs))
	}
	for i, name := range featureNames {
		if a.Inputs[i] != name {
			return fmt.Errorf("%w: input %d is %q, expected %q", ErrSchemaMismatch, i, a.Inputs[i], name)
		}
	}
	if a.Output != OutputName {
		return fmt.Errorf("%w: output is %q, expected %q", ErrSchemaMismatch, a.Output, OutputName)
	}
	if len(a.Classes) != 2 || a.Classes[0] != LabelDenied || a.Classes[1] != LabelApproved {
		return fmt.Errorf("%w: classes must be [0 1], got %v", ErrSchemaMismatch, a.Classes)
	}
	return nil
}

// Classifier builds the classifier described by the artifact payload.
func (a *Artifact) Classifier() (Classifier, error) {
	switch a.ModelType {
	case ModelTypeDecisionTree:
		tree, err := NewDecisionTree(a.Tree)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
		}
		return tree, nil
	case ModelTypeLogisticRegression:
		if a.Logistic == nil {
			return nil, fmt.Errorf("%w: missing logistic parameters", ErrCorruptArtifact)
		}
		model, err := NewLogisticRegression(*a.Logistic)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, a.ModelType)
	}
}
