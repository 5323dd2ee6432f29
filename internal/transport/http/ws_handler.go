package http

import (
	"encoding/json"
	"log"
	"net/http"

	"isekai-quiz-service/internal/app"
	"isekai-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler runs an interactive quiz over a websocket: the server drives the
// question sequence, the client sends answer and restart messages.
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
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type questionPayload struct {
	SessionID string          `json:"session_id,omitempty"`
	Question  domain.Question `json:"question"`
}

type wsNextPayload struct {
	GodResponse  string           `json:"god_response"`
	NextQuestion *domain.Question `json:"next_question"`
}

type wsReplacedPayload struct {
	Message   string           `json:"message"`
	SessionID string           `json:"session_id"`
	Question  *domain.Question `json:"question"`
}

type wsCompletePayload struct {
	GodResponse string                  `json:"god_response"`
	Result      *domain.CompletedResult `json:"result"`
}

type wsErrorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection, starts a fresh session, and processes
// answers until the client disconnects. All writes happen from this goroutine,
// so no write pump is needed.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	started, err := h.service.Start(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[wsErrorPayload]{Type: "error", Payload: wsErrorPayload{Message: err.Error()}})
		return
	}
	sessionID := started.SessionID
	if err := conn.WriteJSON(outboundMessage[questionPayload]{
		Type:    "question",
		Payload: questionPayload{SessionID: sessionID, Question: started.Question},
	}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid answer payload")
				continue
			}
			outcome, err := h.service.Answer(r.Context(), sessionID, payload.Choice)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			switch {
			case outcome.SessionReplaced:
				sessionID = outcome.SessionID
				_ = conn.WriteJSON(outboundMessage[wsReplacedPayload]{Type: "sessionReplaced", Payload: wsReplacedPayload{
					Message:   outcome.Message,
					SessionID: outcome.SessionID,
					Question:  outcome.Question,
				}})
			case outcome.Complete:
				_ = conn.WriteJSON(outboundMessage[wsCompletePayload]{Type: "complete", Payload: wsCompletePayload{
					GodResponse: outcome.GodResponse,
					Result:      outcome.Result,
				}})
			default:
				_ = conn.WriteJSON(outboundMessage[wsNextPayload]{Type: "question", Payload: wsNextPayload{
					GodResponse:  outcome.GodResponse,
					NextQuestion: outcome.Question,
				}})
			}
		case "restart":
			restarted, err := h.service.Restart(r.Context(), sessionID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			if restarted.SessionID != "" {
				sessionID = restarted.SessionID
			}
			_ = conn.WriteJSON(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
				SessionID: restarted.SessionID,
				Question:  restarted.Question,
			}})
		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(outboundMessage[wsErrorPayload]{Type: "error", Payload: wsErrorPayload{Message: message}}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}
