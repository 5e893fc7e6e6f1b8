package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"loanpredict/form"
	"loanpredict/ml"
	"loanpredict/predict"
)

// PredictionService is the part of predict.Service the handlers use.
type PredictionService interface {
	form.Predictor
	Ready() bool
	Model() *ml.Model
}

var (
	serviceMu     sync.RWMutex
	service       PredictionService
	handlerLogger = zap.NewNop()
)

// SetPredictionService installs the service behind the prediction endpoints.
func SetPredictionService(s PredictionService) {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	service = s
}

// SetLogger sets the logger the handlers report prediction failures to.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	serviceMu.Lock()
	defer serviceMu.Unlock()
	handlerLogger = l
}

func currentService() PredictionService {
	serviceMu.RLock()
	defer serviceMu.RUnlock()
	return service
}

func currentLogger() *zap.Logger {
	serviceMu.RLock()
	defer serviceMu.RUnlock()
	return handlerLogger
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/ready", handleReady)
	mux.HandleFunc("GET /api/model", handleModel)
	mux.HandleFunc("POST /api/predict", handlePredict)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	svc := currentService()
	if svc == nil || !svc.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unloaded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func handleModel(w http.ResponseWriter, r *http.Request) {
	svc := currentService()
	if svc == nil || svc.Model() == nil {
		writeError(w, http.StatusServiceUnavailable, predict.ErrNotReady.Error())
		return
	}
	writeJSON(w, http.StatusOK, svc.Model())
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	svc := currentService()
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, predict.ErrNotReady.Error())
		return
	}

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := form.Submit(r.Context(), svc, req.Input())
	if result.State == form.StateFailed {
		currentLogger().Warn("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(result.Err))
	}
	writeJSON(w, statusFor(result), result)
}

// formRequest accepts each field as a JSON string or a JSON number.
type formRequest struct {
	Age         fieldText `json:"age"`
	Income      fieldText `json:"income"`
	CreditScore fieldText `json:"credit_score"`
}

func (f formRequest) Input() form.Input {
	return form.Input{Age: string(f.Age), Income: string(f.Income), CreditScore: string(f.CreditScore)}
}

type fieldText string

func (t *fieldText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = fieldText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("field must be a string or number: %w", err)
	}
	*t = fieldText(n.String())
	return nil
}

func statusFor(result form.Result) int {
	switch result.State {
	case form.StateInvalidInput:
		return http.StatusUnprocessableEntity
	case form.StateFailed:
		if errors.Is(result.Err, predict.ErrNotReady) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
