package ml

import (
	"context"
	"errors"
)

// LoadModel reads an artifact from src, checks it against the fixed
// age/income/credit_score -> approved schema and builds its classifier.
func LoadModel(ctx context.Context, src Source) (*Model, error) {
	if src == nil {
		return nil, errors.New("model source is nil")
	}
	payload, err := src.ReadArtifact(ctx)
	if err != nil {
		return nil, err
	}
	artifact, err := DecodeArtifact(payload)
	if err != nil {
		return nil, err
	}
	classifier, err := artifact.Classifier()
	if err != nil {
		return nil, err
	}
	model := NewModel(artifact.Name, artifact.Version, artifact.ModelType, classifier)
	model.Source = src.String()
	return model, nil
}
