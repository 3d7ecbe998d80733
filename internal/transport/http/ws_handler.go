package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// WSHandler runs interactive participant sessions: every answer change
// triggers a synchronous visibility recompute, and submit is a one-shot
// terminal operation.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.QuizService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
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
	QuestionID string        `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type quizPayload struct {
	SessionID string      `json:"sessionId"`
	Quiz      domain.Quiz `json:"quiz"`
	Visible   []string    `json:"visible"`
}

type visibilityPayload struct {
	Visible []string `json:"visible"`
}

// ServeWS upgrades the request and drives one participant through a quiz.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	quiz, err := h.service.ParticipantQuiz(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: domain.UserMessage(err)}})
		return
	}
	session, visible, err := h.service.StartSession(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: domain.UserMessage(err)}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", zap.Error(err))
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "quiz", Payload: quizPayload{
		SessionID: session.ID,
		Quiz:      quiz,
		Visible:   visible,
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			visible, err := h.service.SetAnswer(r.Context(), session.ID, payload.QuestionID, payload.Answer)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: domain.UserMessage(err)}}
				continue
			}
			send <- outboundMessage[any]{Type: "visibility", Payload: visibilityPayload{Visible: visible}}
		case "submit":
			result, err := h.service.SubmitSession(r.Context(), session.ID)
			if err != nil {
				msgType := "error"
				if domain.KindOf(err) == domain.KindValidation {
					msgType = "validationError"
				}
				send <- outboundMessage[any]{Type: msgType, Payload: errorPayload{Message: domain.UserMessage(err)}}
				continue
			}
			send <- outboundMessage[any]{Type: "result", Payload: result}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}
