package ml

import (
	"errors"
	"fmt"
	"math"
)

// LogisticParams is the serialized form of a logistic regression classifier.
// Threshold defaults to 0.5 when omitted.
type LogisticParams struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold,omitempty"`
}

type LogisticRegression struct {
	weights   []float64
	bias      float64
	threshold float64
}

func NewLogisticRegression(params LogisticParams) (*LogisticRegression, error) {
	if len(params.Weights) != len(featureNames) {
		return nil, fmt.Errorf("expected %d weights, got %d", len(featureNames), len(params.Weights))
	}
	for i, w := range params.Weights {
		if !isFinite(w) {
			return nil, fmt.Errorf("weight %d is not finite", i)
		}
	}
	if !isFinite(params.Bias) {
		return nil, errors.New("bias is not finite")
	}
	threshold := params.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0,1)", threshold)
	}
	return &LogisticRegression{
		weights:   append([]float64(nil), params.Weights...),
		bias:      params.Bias,
		threshold: threshold,
	}, nil
}

func (lr *LogisticRegression) Predict(features []float64) (int, error) {
	if len(features) != len(lr.weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(lr.weights), len(features))
	}
	z := lr.bias
	for i, w := range lr.weights {
		z += w * features[i]
	}
	if math.IsNaN(z) {
		return 0, errors.New("activation is NaN")
	}
	if sigmoid(z) >= lr.threshold {
		return LabelApproved, nil
	}
	return LabelDenied, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
