// Package form turns the three raw text fields of the loan form into a
// feature record and renders prediction outcomes back into user messages.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"loanpredict/predict"
)

const (
	FieldAge         = "age"
	FieldIncome      = "income"
	FieldCreditScore = "credit_score"
)

// Input holds the form fields exactly as typed.
type Input struct {
	Age         string `json:"age"`
	Income      string `json:"income"`
	CreditScore string `json:"credit_score"`
}

// ValidationError names the first field that is not a finite, non-negative number.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Parse validates all three fields in form order.
func Parse(in Input) (predict.FeatureRecord, error) {
	age, err := parseField(FieldAge, in.Age)
	if err != nil {
		return predict.FeatureRecord{}, err
	}
	income, err := parseField(FieldIncome, in.Income)
	if err != nil {
		return predict.FeatureRecord{}, err
	}
	creditScore, err := parseField(FieldCreditScore, in.CreditScore)
	if err != nil {
		return predict.FeatureRecord{}, err
	}
	return predict.FeatureRecord{Age: age, Income: income, CreditScore: creditScore}, nil
}

func parseField(field, raw string) (float64, error) {
	// full-width digits from CJK keyboards fold to ASCII
	text := strings.TrimSpace(width.Narrow.String(raw))
	if text == "" {
		return 0, &ValidationError{Field: field, Value: raw, Err: fmt.Errorf("value is empty")}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Err: err}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{Field: field, Value: raw, Err: fmt.Errorf("value is not finite")}
	}
	if value < 0 {
		return 0, &ValidationError{Field: field, Value: raw, Err: fmt.Errorf("value is negative")}
	}
	return value, nil
}
