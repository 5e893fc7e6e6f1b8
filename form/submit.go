package form

import (
	"context"
	"errors"

	"loanpredict/monitoring"
	"loanpredict/predict"
)

const (
	MessageApproved     = "✅ Loan Approved!"
	MessageNotApproved  = "❌ Loan Not Approved."
	MessageInvalidInput = "Please enter valid numbers."
	messageFailedPrefix = "Prediction failed: "
)

type State string

const (
	StateApproved     State = "approved"
	StateNotApproved  State = "not_approved"
	StateInvalidInput State = "invalid_input"
	StateFailed       State = "failed"
)

// Predictor is what Submit needs from the prediction service.
type Predictor interface {
	Predict(ctx context.Context, record predict.FeatureRecord) (predict.Decision, error)
}

// Result is what the presentation layer shows after one submission.
type Result struct {
	State    State  `json:"state"`
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Err      error  `json:"-"`
}

// Submit parses the form and, only if every field is valid, asks p for a decision.
func Submit(ctx context.Context, p Predictor, in Input) Result {
	record, err := Parse(in)
	if err != nil {
		return Render(predict.Decision{}, err)
	}
	decision, err := p.Predict(ctx, record)
	return Render(decision, err)
}

// Render maps a decision or error to one of the fixed user messages.
func Render(decision predict.Decision, err error) Result {
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			monitoring.ValidationFailures.WithLabelValues(verr.Field).Inc()
			return Result{State: StateInvalidInput, Message: MessageInvalidInput, Field: verr.Field, Err: err}
		}
		return Result{State: StateFailed, Message: messageFailedPrefix + failureReason(err), Err: err}
	}
	if decision.Approved {
		return Result{State: StateApproved, Approved: true, Message: MessageApproved}
	}
	return Result{State: StateNotApproved, Message: MessageNotApproved}
}

func failureReason(err error) string {
	var ierr *predict.InferenceError
	if errors.As(err, &ierr) && ierr.Err != nil {
		return ierr.Err.Error()
	}
	return err.Error()
}
