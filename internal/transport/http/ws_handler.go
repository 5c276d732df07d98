package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"
)

type WSHandler struct {
	service  *app.GameService
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, m *metrics.Metrics, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		metrics: m,
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
	Answer string `json:"answer"`
}

type questionPayload struct {
	GameID       string   `json:"gameId"`
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	Category     string   `json:"category"`
	PhoneticHint string   `json:"phoneticHint,omitempty"`
	Score        int      `json:"score"`
	Progress     int      `json:"progress"`
}

type answerResult struct {
	Index         int    `json:"index"`
	Answer        string `json:"answer"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and plays one quiz over the connection.
// Query parameters difficulty and count override the saved settings.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	opts := app.GameOptions{Difficulty: r.URL.Query().Get("difficulty")}
	if opts.Difficulty != "" {
		if _, ok := domain.LookupDifficulty(opts.Difficulty); !ok {
			http.Error(w, "unknown difficulty", http.StatusBadRequest)
			return
		}
	}
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		opts.QuestionCount = n
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	gameID := uuid.NewString()
	log := h.log.WithField("game_id", gameID)
	defer h.metrics.TrackGame()()

	session, err := h.service.Start(r.Context(), opts)
	if err != nil {
		log.WithError(err).Warn("quiz could not be created")
		writeError(conn, log, err.Error())
		return
	}
	if !h.sendQuestion(conn, log, gameID, session) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			log.WithField("answered", session.AnsweredCount()).Debug("player left")
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				writeError(conn, log, "invalid answer payload")
				continue
			}
			next, outcome, ok := h.service.Answer(session, payload.Answer)
			if !ok {
				writeError(conn, log, "quiz already complete")
				continue
			}
			result := answerResult{
				Index:         session.CurrentIndex(),
				Answer:        outcome.Answer,
				Correct:       outcome.Correct,
				CorrectAnswer: outcome.Question.CorrectAnswer,
				Score:         next.Score(),
			}
			session = next
			if !write(conn, log, outboundMessage[answerResult]{Type: "answerResult", Payload: result}) {
				return
			}

			if session.IsComplete() {
				final, err := h.service.Finish(r.Context(), session)
				if err != nil {
					log.WithError(err).Error("failed to record result")
					writeError(conn, log, "failed to record result")
					return
				}
				write(conn, log, outboundMessage[app.GameResult]{Type: "completed", Payload: final})
				return
			}
			if !h.sendQuestion(conn, log, gameID, session) {
				return
			}
		default:
			writeError(conn, log, "unsupported message type")
		}
	}
}

func (h *WSHandler) sendQuestion(conn *websocket.Conn, log logrus.FieldLogger, gameID string, session app.Session) bool {
	q, ok := session.CurrentQuestion()
	if !ok {
		return false
	}
	return write(conn, log, outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		GameID:       gameID,
		Index:        session.CurrentIndex(),
		Total:        session.Len(),
		Prompt:       q.Prompt,
		Options:      q.Options,
		Category:     q.Category,
		PhoneticHint: q.PhoneticHint,
		Score:        session.Score(),
		Progress:     session.ProgressPercent(),
	}})
}

func write(conn *websocket.Conn, log logrus.FieldLogger, msg any) bool {
	if err := conn.WriteJSON(msg); err != nil {
		log.WithError(err).Warn("ws write error")
		return false
	}
	return true
}

func writeError(conn *websocket.Conn, log logrus.FieldLogger, message string) {
	write(conn, log, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
