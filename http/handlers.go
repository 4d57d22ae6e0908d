package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"burnoutcheck/form"
	"burnoutcheck/ml"
)

// Predictor is the inference side the handlers depend on.
type Predictor interface {
	Predict(ctx context.Context, input ml.UserInput) (ml.Prediction, error)
	Model() *ml.Model
}

type Handlers struct {
	predictor Predictor
	logger    *zap.Logger
	page      *template.Template
	upgrader  websocket.Upgrader
	// readLimit bounds a single socket message; RequestSizeMiddleware stops
	// applying once the connection is hijacked.
	readLimit int64
}

// NewHandlers takes the allowed origins and the body limit from config.
func NewHandlers(predictor Predictor, config ServerConfig, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowedOrigins := config.AllowedOrigins
	return &Handlers{
		predictor: predictor,
		logger:    logger,
		page:      pageTemplate,
		readLimit: config.MaxBodyBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(allowedOrigins, origin)
			},
		},
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /{$}", h.handleFormSubmit)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/ws/predict", h.handlePredictWS)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type modelInfo struct {
	Kind      string   `json:"kind"`
	Codec     string   `json:"codec"`
	Path      string   `json:"path"`
	Features  []string `json:"features"`
	NFeatures int      `json:"n_features"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleSchema(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"fields": form.Fields(),
		"model":  nil,
	}
	if model := h.predictor.Model(); model != nil {
		response["model"] = modelInfo{
			Kind:      model.Kind,
			Codec:     model.Codec,
			Path:      model.Path,
			Features:  model.Schema,
			NFeatures: model.NumFeatures(),
		}
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var input ml.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), nil)
		return
	}

	prediction, status, errResp := h.evaluate(r.Context(), input)
	if errResp != nil {
		writeJSON(w, status, errResp)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

// evaluate validates input and runs inference. Prediction failures are
// reported, never fatal.
func (h *Handlers) evaluate(ctx context.Context, input ml.UserInput) (ml.Prediction, int, *errorResponse) {
	if err := form.Validate(input); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			return ml.Prediction{}, http.StatusBadRequest, &errorResponse{Error: "invalid input", Fields: verr.Fields}
		}
		return ml.Prediction{}, http.StatusBadRequest, &errorResponse{Error: err.Error()}
	}

	prediction, err := h.predictor.Predict(ctx, input)
	if err != nil {
		h.logger.Warn("prediction failed",
			zap.String("request_id", GetRequestID(ctx)),
			zap.Error(err),
		)
		var predErr *ml.PredictionError
		if errors.As(err, &predErr) {
			return ml.Prediction{}, http.StatusUnprocessableEntity, &errorResponse{Error: "Prediction error: " + predErr.Error()}
		}
		return ml.Prediction{}, http.StatusServiceUnavailable, &errorResponse{Error: "Prediction error: " + err.Error()}
	}
	return prediction, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, errorResponse{Error: message, Fields: fields})
}
