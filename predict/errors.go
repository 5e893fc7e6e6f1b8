package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by Predict before a model has been loaded.
	// It signals a caller ordering bug, not a user-facing condition.
	ErrNotReady = errors.New("prediction service not ready: model not loaded")

	ErrAlreadyLoaded = errors.New("prediction service already has a model loaded")
)

// ModelLoadError reports an artifact that is missing, corrupt or has the wrong schema.
// It is fatal at startup.
type ModelLoadError struct {
	Source string
	Err    error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model from %s: %v", e.Source, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// InferenceError reports a failed forward pass. It is never retried.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
