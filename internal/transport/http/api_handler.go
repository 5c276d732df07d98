package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// APIHandler serves the read-mostly REST endpoints around the game.
type APIHandler struct {
	service  *app.GameService
	settings *app.Settings
	words    app.WordStore
	log      logrus.FieldLogger
}

func NewAPIHandler(service *app.GameService, settings *app.Settings, words app.WordStore, log logrus.FieldLogger) *APIHandler {
	return &APIHandler{service: service, settings: settings, words: words, log: log}
}

// Register mounts every endpoint on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /scores", h.listScores)
	mux.HandleFunc("DELETE /scores", h.resetScores)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("GET /words", h.searchWords)
	mux.HandleFunc("GET /settings", h.getSettings)
	mux.HandleFunc("PUT /settings", h.putSettings)
}

type scoreView struct {
	Score         int    `json:"score"`
	Total         int    `json:"total"`
	Percentage    int    `json:"percentage"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
	Timestamp     int64  `json:"timestamp"`
	Date          string `json:"date"`
}

type settingsView struct {
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"questionCount"`
}

func (h *APIHandler) listScores(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.HighScores(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	views := make([]scoreView, 0, len(entries))
	for _, e := range entries {
		views = append(views, scoreView{
			Score:         e.Score,
			Total:         e.Total,
			Percentage:    e.Percentage(),
			Difficulty:    e.Difficulty,
			QuestionCount: e.QuestionCount,
			Timestamp:     e.Timestamp,
			Date:          e.FormattedDate(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": views})
}

func (h *APIHandler) resetScores(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetScores(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) searchWords(w http.ResponseWriter, r *http.Request) {
	entries, err := h.words.AllEntries(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	q := r.URL.Query()
	matches := domain.FilterEntries(entries, q.Get("q"), q.Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{"count": len(matches), "words": matches})
}

func (h *APIHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	d, err := h.settings.Difficulty(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	n, err := h.settings.QuestionCount(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsView{Difficulty: d.Name, QuestionCount: n})
}

func (h *APIHandler) putSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsView
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	var difficulty domain.Difficulty
	if body.Difficulty != "" {
		d, ok := domain.LookupDifficulty(body.Difficulty)
		if !ok {
			h.fail(w, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, body.Difficulty))
			return
		}
		difficulty = d
	}
	if body.QuestionCount < 0 {
		h.fail(w, domain.ErrInvalidQuestionCount)
		return
	}

	ctx := r.Context()
	if difficulty.Name != "" {
		if err := h.settings.SetDifficulty(ctx, difficulty); err != nil {
			h.fail(w, err)
			return
		}
	}
	if body.QuestionCount != 0 {
		if err := h.settings.SetQuestionCount(ctx, body.QuestionCount); err != nil {
			h.fail(w, err)
			return
		}
	}
	h.getSettings(w, r)
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidQuestionCount) || errors.Is(err, domain.ErrUnknownDifficulty) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.WithError(err).Error("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
