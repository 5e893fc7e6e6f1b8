package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"loanpredict/form"
	"loanpredict/predict"
)

// RegisterFormSocket serves the form over a WebSocket: every text frame is one
// submission and gets exactly one result frame back. Browser origins follow the
// same allow-list as CORSMiddleware; frames are capped at config.MaxBodyBytes.
func RegisterFormSocket(mux *http.ServeMux, config ServerConfig, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(config.AllowedOrigins, origin)
		},
	}
	mux.HandleFunc("GET /api/ws/form", func(w http.ResponseWriter, r *http.Request) {
		handleFormSocket(w, r, &upgrader, config.MaxBodyBytes, logger)
	})
}

func handleFormSocket(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, readLimit int64, logger *zap.Logger) {
	requestID := zap.String("request_id", GetRequestID(r.Context()))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", requestID, zap.Error(err))
		return
	}
	defer conn.Close()
	if readLimit > 0 {
		conn.SetReadLimit(readLimit)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("form socket closed", requestID, zap.Error(err))
			}
			return
		}

		var req formRequest
		var result form.Result
		svc := currentService()
		switch {
		case json.Unmarshal(message, &req) != nil:
			result = form.Result{State: form.StateInvalidInput, Message: form.MessageInvalidInput}
		case svc == nil:
			result = form.Render(predict.Decision{}, predict.ErrNotReady)
		default:
			result = form.Submit(r.Context(), svc, req.Input())
		}
		if result.State == form.StateFailed {
			logger.Warn("form socket prediction failed", requestID, zap.Error(result.Err))
		}

		if err := conn.WriteJSON(result); err != nil {
			logger.Warn("form socket write failed", requestID, zap.Error(err))
			return
		}
	}
}
