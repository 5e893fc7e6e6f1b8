package ml

import (
	"math"
	"testing"
)

func TestLogisticRegressionPredict(t *testing.T) {
	model, err := NewLogisticRegression(LogisticParams{Weights: []float64{0.01, 0.00004, 0.02}, Bias: -16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, err := model.Predict([]float64{34, 52000, 710})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != LabelApproved {
		t.Fatalf("expected approved, got %d", label)
	}

	label, err = model.Predict([]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != LabelDenied {
		t.Fatalf("expected denied, got %d", label)
	}
}

func TestLogisticRegressionNaNActivation(t *testing.T) {
	model, err := NewLogisticRegression(LogisticParams{Weights: []float64{1, 1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := model.Predict([]float64{math.Inf(1), math.Inf(-1), 0}); err == nil {
		t.Fatal("expected error for NaN activation")
	}
}

func TestNewLogisticRegressionValidation(t *testing.T) {
	if _, err := NewLogisticRegression(LogisticParams{Weights: []float64{1, 2}}); err == nil {
		t.Fatal("expected error for wrong weight count")
	}
	if _, err := NewLogisticRegression(LogisticParams{Weights: []float64{1, 2, 3}, Threshold: 1.5}); err == nil {
		t.Fatal("expected error for threshold outside (0,1)")
	}
	if _, err := NewLogisticRegression(LogisticParams{Weights: []float64{1, math.NaN(), 3}}); err == nil {
		t.Fatal("expected error for NaN weight")
	}
}
