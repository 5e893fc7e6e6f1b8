package predict

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"loanpredict/ml"
)

var bundledModel = ml.FileSource{Path: filepath.Join("..", "models", "loan_approval.json")}

type fakeClassifier struct {
	mu    sync.Mutex
	calls int
	label int
	err   error
	delay time.Duration
}

func (f *fakeClassifier) Predict(features []float64) (int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.label, f.err
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func serviceWith(classifier ml.Classifier, opts ...Option) *Service {
	s := NewService(opts...)
	s.model.Store(ml.NewModel("fake", "test", "fake", classifier))
	return s
}

func loadedService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s := NewService(opts...)
	if _, err := s.Load(context.Background(), bundledModel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestPredictBeforeLoad(t *testing.T) {
	s := NewService()
	records := []FeatureRecord{{}, {Age: 34, Income: 52000, CreditScore: 710}, {Age: 99, Income: 1e9, CreditScore: 850}}
	for _, record := range records {
		if _, err := s.Predict(context.Background(), record); !errors.Is(err, ErrNotReady) {
			t.Fatalf("expected ErrNotReady, got %v", err)
		}
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	s := NewService()
	_, err := s.Load(context.Background(), ml.FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})

	var loadErr *ModelLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ModelLoadError, got %v", err)
	}
	if !errors.Is(err, ml.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound in chain, got %v", err)
	}
	if s.Ready() {
		t.Fatal("service must stay unloaded")
	}
	if _, err := s.Predict(context.Background(), FeatureRecord{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestLoadIsOnce(t *testing.T) {
	s := loadedService(t)
	if !s.Ready() {
		t.Fatal("expected service to be ready")
	}
	if s.Model().Name != "loan_approval" {
		t.Fatalf("unexpected model name %q", s.Model().Name)
	}
	if _, err := s.Load(context.Background(), bundledModel); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
}

func TestPredictBundledModel(t *testing.T) {
	s := loadedService(t)

	tests := []struct {
		name     string
		record   FeatureRecord
		approved bool
	}{
		{"typical applicant", FeatureRecord{Age: 34, Income: 52000, CreditScore: 710}, true},
		{"all zero", FeatureRecord{}, false},
		{"young with low credit", FeatureRecord{Age: 22, Income: 90000, CreditScore: 600}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := s.Predict(context.Background(), tc.record)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.Approved != tc.approved {
				t.Fatalf("expected approved=%v, got %v", tc.approved, decision.Approved)
			}
		})
	}
}

func TestPredictDeterministic(t *testing.T) {
	s := loadedService(t)
	record := FeatureRecord{Age: 41, Income: 61000, CreditScore: 640}

	first, err := s.Predict(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := s.Predict(context.Background(), record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != first {
			t.Fatalf("decision changed between calls: %v != %v", next, first)
		}
	}
}

func TestPredictConcurrent(t *testing.T) {
	s := loadedService(t)
	record := FeatureRecord{Age: 34, Income: 52000, CreditScore: 710}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := s.Predict(context.Background(), record)
			if err != nil {
				errs <- err
				return
			}
			if !decision.Approved {
				errs <- errors.New("expected approval")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestPredictInferenceError(t *testing.T) {
	s := serviceWith(&fakeClassifier{err: errors.New("tensor shape")})
	_, err := s.Predict(context.Background(), FeatureRecord{Age: 1})
	if !IsInferenceError(err) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
}

func TestPredictRejectsNonBinaryLabel(t *testing.T) {
	s := serviceWith(&fakeClassifier{label: 7})
	if _, err := s.Predict(context.Background(), FeatureRecord{}); !IsInferenceError(err) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
}

func TestPredictTimeout(t *testing.T) {
	s := serviceWith(&fakeClassifier{label: 1, delay: 200 * time.Millisecond}, WithTimeout(10*time.Millisecond))
	_, err := s.Predict(context.Background(), FeatureRecord{})
	if !IsInferenceError(err) {
		t.Fatalf("expected InferenceError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestPredictCancelledContext(t *testing.T) {
	classifier := &fakeClassifier{label: 1}
	s := serviceWith(classifier)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Predict(ctx, FeatureRecord{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if classifier.Calls() != 0 {
		t.Fatalf("classifier should not run, got %d calls", classifier.Calls())
	}
}

func TestPredictCache(t *testing.T) {
	classifier := &fakeClassifier{label: 1}
	s := serviceWith(classifier, WithCacheSize(8))
	record := FeatureRecord{Age: 30, Income: 40000, CreditScore: 700}

	for i := 0; i < 5; i++ {
		decision, err := s.Predict(context.Background(), record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !decision.Approved {
			t.Fatal("expected approval")
		}
	}
	if classifier.Calls() != 1 {
		t.Fatalf("expected 1 classifier call, got %d", classifier.Calls())
	}
}

func TestPredictCancelledContextWithCachedRecord(t *testing.T) {
	classifier := &fakeClassifier{label: 1}
	s := serviceWith(classifier, WithCacheSize(8))
	record := FeatureRecord{Age: 30, Income: 40000, CreditScore: 700}

	if _, err := s.Predict(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Predict(ctx, record)
	if !IsInferenceError(err) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected inference error wrapping context.Canceled, got %v", err)
	}
}

func TestFeatureRecordVectorOrder(t *testing.T) {
	v := FeatureRecord{Age: 1, Income: 2, CreditScore: 3}.Vector()
	if len(v) != 3 || v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Fatalf("unexpected vector %v", v)
	}
}
