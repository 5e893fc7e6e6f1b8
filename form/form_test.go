package form

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"loanpredict/ml"
	"loanpredict/predict"
)

type countingPredictor struct {
	calls    int
	decision predict.Decision
	err      error
	last     predict.FeatureRecord
}

func (c *countingPredictor) Predict(ctx context.Context, record predict.FeatureRecord) (predict.Decision, error) {
	c.calls++
	c.last = record
	return c.decision, c.err
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected predict.FeatureRecord
		field    string
	}{
		{"plain", Input{"34", "52000", "710"}, predict.FeatureRecord{Age: 34, Income: 52000, CreditScore: 710}, ""},
		{"decimals and spaces", Input{" 34.5 ", "52000.75", "710"}, predict.FeatureRecord{Age: 34.5, Income: 52000.75, CreditScore: 710}, ""},
		{"full width digits", Input{"３４", "５２０００", "７１０"}, predict.FeatureRecord{Age: 34, Income: 52000, CreditScore: 710}, ""},
		{"zeros", Input{"0", "0", "0"}, predict.FeatureRecord{}, ""},
		{"letters", Input{"abc", "52000", "710"}, predict.FeatureRecord{}, FieldAge},
		{"empty income", Input{"34", "", "710"}, predict.FeatureRecord{}, FieldIncome},
		{"nan", Input{"34", "52000", "NaN"}, predict.FeatureRecord{}, FieldCreditScore},
		{"infinity", Input{"34", "Inf", "710"}, predict.FeatureRecord{}, FieldIncome},
		{"negative", Input{"-1", "52000", "710"}, predict.FeatureRecord{}, FieldAge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record, err := Parse(tc.input)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if record != tc.expected {
					t.Fatalf("expected %+v, got %+v", tc.expected, record)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, verr.Field)
			}
		})
	}
}

func TestSubmitInvalidInputSkipsPredictor(t *testing.T) {
	p := &countingPredictor{decision: predict.Decision{Approved: true}}
	result := Submit(context.Background(), p, Input{"abc", "52000", "710"})

	if p.calls != 0 {
		t.Fatalf("predictor must not be called, got %d calls", p.calls)
	}
	if result.State != StateInvalidInput {
		t.Fatalf("expected invalid input state, got %s", result.State)
	}
	if result.Message != "Please enter valid numbers." {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSubmitRendersDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision predict.Decision
		message  string
		state    State
	}{
		{"approved", predict.Decision{Approved: true}, "✅ Loan Approved!", StateApproved},
		{"not approved", predict.Decision{Approved: false}, "❌ Loan Not Approved.", StateNotApproved},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &countingPredictor{decision: tc.decision}
			result := Submit(context.Background(), p, Input{"34", "52000", "710"})
			if p.calls != 1 {
				t.Fatalf("expected 1 call, got %d", p.calls)
			}
			if p.last != (predict.FeatureRecord{Age: 34, Income: 52000, CreditScore: 710}) {
				t.Fatalf("unexpected record %+v", p.last)
			}
			if result.Message != tc.message || result.State != tc.state {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestSubmitInferenceFailure(t *testing.T) {
	p := &countingPredictor{err: &predict.InferenceError{Err: errors.New("model exploded")}}
	result := Submit(context.Background(), p, Input{"34", "52000", "710"})

	if result.State != StateFailed {
		t.Fatalf("expected failed state, got %s", result.State)
	}
	if result.Message != "Prediction failed: model exploded" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	svc := predict.NewService()
	src := ml.FileSource{Path: filepath.Join("..", "models", "loan_approval.json")}
	if _, err := svc.Load(context.Background(), src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := Submit(context.Background(), svc, Input{"34", "52000", "710"})
	if result.Err != nil {
		t.Fatalf("pipeline failed: %v", result.Err)
	}
	if result.Message != MessageApproved && result.Message != MessageNotApproved {
		t.Fatalf("unexpected message %q", result.Message)
	}

	result = Submit(context.Background(), predict.NewService(), Input{"34", "52000", "710"})
	if result.State != StateFailed || !strings.HasPrefix(result.Message, "Prediction failed: ") {
		t.Fatalf("expected failure before load, got %+v", result)
	}
}
