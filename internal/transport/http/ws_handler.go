package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dailyquiz-service/internal/app"
	"dailyquiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler exposes the quiz operations over a websocket, one connection per
// user visit. The protocol is request/response: the client sends typed
// messages and each one yields a typed reply (or an error payload).
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Correct    *bool  `json:"correct,omitempty"`
}

type completePayload struct {
	SessionID string `json:"sessionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and serves the quiz protocol until the client
// disconnects. Query params identify the caller: userId and tz.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	timezone := r.URL.Query().Get("tz")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	if timezone == "" {
		timezone = "UTC"
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Initial status so the client can render the day without a round trip.
	status, err := h.service.GetUserQuizStatus(r.Context(), userID, timezone)
	if err != nil {
		h.sendError(conn, err)
		return
	}
	h.send(conn, "status", status)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "status":
			status, err := h.service.GetUserQuizStatus(r.Context(), userID, timezone)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			h.send(conn, "status", status)
		case "start":
			status, err := h.service.GetUserQuizStatus(r.Context(), userID, timezone)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			session, err := h.service.StartQuizSession(r.Context(), userID, status.TodaysQuiz.ID, timezone)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			h.send(conn, "session", session)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.send(conn, "error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			session, err := h.service.SaveQuizAnswer(r.Context(), payload.SessionID, payload.QuestionID, payload.Answer, payload.Correct)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			h.send(conn, "session", session)
		case "complete":
			var payload completePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.send(conn, "error", errorPayload{Message: "invalid complete payload"})
				continue
			}
			result, err := h.service.CompleteQuizSession(r.Context(), payload.SessionID)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			h.send(conn, "result", result)
		default:
			h.send(conn, "error", errorPayload{Message: "unsupported message type"})
		}
	}
}

func (h *WSHandler) send(conn *websocket.Conn, msgType string, payload any) {
	if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WSHandler) sendError(conn *websocket.Conn, err error) {
	h.send(conn, "error", errorPayload{Message: err.Error()})
}

// ServeStatus is a plain HTTP mirror of the status operation for callers
// that do not hold a websocket open.
func (h *WSHandler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	timezone := r.URL.Query().Get("tz")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	if timezone == "" {
		timezone = "UTC"
	}
	status, err := h.service.GetUserQuizStatus(r.Context(), userID, timezone)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// statusCode maps engine errors for callers that surface them over plain HTTP.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionCompleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTimezone):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
