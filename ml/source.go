package ml

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// RegistryScheme prefixes source strings that name an artifact in the model registry.
const RegistryScheme = "registry:"

// Source yields the raw bytes of a model artifact.
type Source interface {
	ReadArtifact(ctx context.Context) ([]byte, error)
	String() string
}

// ArtifactStore is the subset of the model registry a RegistrySource needs.
type ArtifactStore interface {
	LatestArtifact(ctx context.Context, name string) ([]byte, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) ReadArtifact(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.Path)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s FileSource) String() string {
	return s.Path
}

type RegistrySource struct {
	Store ArtifactStore
	Name  string
}

func (s RegistrySource) ReadArtifact(ctx context.Context) ([]byte, error) {
	if s.Store == nil {
		return nil, errors.New("model registry not configured")
	}
	return s.Store.LatestArtifact(ctx, s.Name)
}

func (s RegistrySource) String() string {
	return RegistryScheme + s.Name
}

// ParseSource turns a configured source string into a Source. "registry:<name>"
// selects the newest registry artifact with that name; anything else is a file path.
func ParseSource(raw string, store ArtifactStore) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("model source is required")
	}
	if name, ok := strings.CutPrefix(raw, RegistryScheme); ok {
		if name == "" {
			return nil, errors.New("registry source needs a model name")
		}
		if store == nil {
			return nil, fmt.Errorf("source %q needs a model registry", raw)
		}
		return RegistrySource{Store: store, Name: name}, nil
	}
	return FileSource{Path: raw}, nil
}
