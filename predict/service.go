// Package predict wraps a loaded loan approval classifier behind a single
// synchronous inference call.
package predict

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"loanpredict/ml"
	"loanpredict/monitoring"
)

// FeatureRecord is one applicant. Fields map to model inputs in declaration order.
type FeatureRecord struct {
	Age         float64 `json:"age"`
	Income      float64 `json:"income"`
	CreditScore float64 `json:"credit_score"`
}

// Vector returns the record in the model's input order: age, income, credit_score.
func (r FeatureRecord) Vector() []float64 {
	return []float64{r.Age, r.Income, r.CreditScore}
}

type Decision struct {
	Approved bool `json:"approved"`
}

// Service owns a single model. It is Unloaded until Load succeeds and Ready after;
// the model is never replaced, so Predict takes no locks.
type Service struct {
	model   atomic.Pointer[ml.Model]
	cache   *lru.Cache[FeatureRecord, Decision]
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each Predict call. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithCacheSize memoizes decisions for up to size distinct records. Zero disables it.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size <= 0 {
			s.cache = nil
			return
		}
		cache, err := lru.New[FeatureRecord, Decision](size)
		if err != nil {
			s.logger.Warn("decision cache disabled", zap.Error(err))
			return
		}
		s.cache = cache
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the artifact from src and moves the service to Ready.
// Any failure is a *ModelLoadError and leaves the service Unloaded.
func (s *Service) Load(ctx context.Context, src ml.Source) (*ml.Model, error) {
	if s.Ready() {
		return nil, ErrAlreadyLoaded
	}
	name := "<nil>"
	if src != nil {
		name = src.String()
	}

	model, err := ml.LoadModel(ctx, src)
	if err != nil {
		monitoring.ModelLoadFailures.Inc()
		return nil, &ModelLoadError{Source: name, Err: err}
	}
	if !s.model.CompareAndSwap(nil, model) {
		return nil, ErrAlreadyLoaded
	}

	monitoring.ModelLoaded.WithLabelValues(model.Name, model.Version, model.ModelType).Set(1)
	s.logger.Info("model loaded",
		zap.String("source", name),
		zap.String("name", model.Name),
		zap.String("version", model.Version),
		zap.String("model_type", model.ModelType))
	return model, nil
}

func (s *Service) Ready() bool {
	return s.model.Load() != nil
}

// Model returns the loaded model, or nil while Unloaded.
func (s *Service) Model() *ml.Model {
	return s.model.Load()
}

// Predict runs one forward pass. Inputs are not range-checked here.
func (s *Service) Predict(ctx context.Context, record FeatureRecord) (Decision, error) {
	model := s.model.Load()
	if model == nil {
		monitoring.Predictions.WithLabelValues(monitoring.ResultNotReady).Inc()
		return Decision{}, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		monitoring.Predictions.WithLabelValues(monitoring.ResultError).Inc()
		return Decision{}, &InferenceError{Err: err}
	}

	if s.cache != nil {
		if decision, ok := s.cache.Get(record); ok {
			monitoring.CacheLookups.WithLabelValues("hit").Inc()
			observeDecision(decision)
			return decision, nil
		}
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	label, err := s.classify(ctx, model, record.Vector())
	monitoring.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.Predictions.WithLabelValues(monitoring.ResultError).Inc()
		s.logger.Warn("inference failed", zap.Error(err))
		return Decision{}, &InferenceError{Err: err}
	}

	decision := Decision{Approved: label == ml.LabelApproved}
	if s.cache != nil {
		s.cache.Add(record, decision)
	}
	observeDecision(decision)
	s.logger.Debug("prediction",
		zap.Float64("age", record.Age),
		zap.Float64("income", record.Income),
		zap.Float64("credit_score", record.CreditScore),
		zap.Bool("approved", decision.Approved))
	return decision, nil
}

func (s *Service) classify(ctx context.Context, model *ml.Model, features []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.timeout <= 0 {
		return model.Classify(features)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		label int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		label, err := model.Classify(features)
		done <- result{label: label, err: err}
	}()

	select {
	case r := <-done:
		return r.label, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func observeDecision(decision Decision) {
	if decision.Approved {
		monitoring.Predictions.WithLabelValues(monitoring.ResultApproved).Inc()
		return
	}
	monitoring.Predictions.WithLabelValues(monitoring.ResultNotApproved).Inc()
}

// IsInferenceError reports whether err came from a failed forward pass.
func IsInferenceError(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}
