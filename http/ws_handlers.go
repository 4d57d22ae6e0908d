package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"burnoutcheck/ml"
)

// wsReply answers one form update on the live prediction socket.
type wsReply struct {
	Prediction *ml.Prediction    `json:"prediction,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// handlePredictWS re-runs inference for every form state the client sends,
// one reply per message, until the client goes away.
func (h *Handlers) handlePredictWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	requestID := GetRequestID(r.Context())
	h.logger.Debug("websocket client connected", zap.String("request_id", requestID))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				h.logger.Warn("websocket message too large",
					zap.String("request_id", requestID),
					zap.Int64("limit", h.readLimit),
				)
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("request_id", requestID), zap.Error(err))
			}
			return
		}

		var reply wsReply
		var input ml.UserInput
		if err := json.Unmarshal(payload, &input); err != nil {
			reply.Error = "invalid JSON message: " + err.Error()
		} else {
			prediction, _, errResp := h.evaluate(r.Context(), input)
			if errResp != nil {
				reply.Error = errResp.Error
				reply.Fields = errResp.Fields
			} else {
				reply.Prediction = &prediction
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("websocket write failed", zap.String("request_id", requestID), zap.Error(err))
			return
		}
	}
}
