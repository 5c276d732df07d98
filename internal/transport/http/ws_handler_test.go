package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/logger"
	"vocab-quiz-service/internal/metrics"
)

type fixture struct {
	service  *app.GameService
	settings *app.Settings
	words    app.WordStore
	metrics  *metrics.Metrics
}

func newFixture(wordCount int) fixture {
	store := memory.NewPreferenceStore()
	words := memory.NewDictionaryRepository(memory.NewStaticWordLoader(sampleWords(wordCount)), time.Minute)
	settings := app.NewSettings(store)
	m := metrics.New(prometheus.NewRegistry())
	service := app.NewGameService(words, app.NewQuizEngine(app.NewRandom()), app.NewScoreLedger(store), settings, m, logger.Discard())
	return fixture{service: service, settings: settings, words: words, metrics: m}
}

func (f fixture) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(f.service, f.metrics, logger.Discard()).ServeWS)
	NewAPIHandler(f.service, f.settings, f.words, logger.Discard()).Register(mux)
	return httptest.NewServer(mux)
}

func TestWebSocketPlaysFullQuiz(t *testing.T) {
	f := newFixture(10)
	server := f.server()
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?difficulty=BEGINNER&count=2"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, question := readNext(conn, t, "question")
	if question["total"].(float64) != 2 {
		t.Fatalf("expected 2 questions, got %v", question["total"])
	}
	if opts := question["options"].([]any); len(opts) != domain.OptionCount {
		t.Fatalf("expected %d options, got %v", domain.OptionCount, opts)
	}

	// First answer is the first option; it may or may not be right.
	sendAnswer(t, conn, question["options"].([]any)[0].(string))
	_, first := readNext(conn, t, "answerResult")
	expectedScore := 0.0
	if first["correct"].(bool) {
		expectedScore = 1
	}
	if first["score"].(float64) != expectedScore {
		t.Fatalf("score %v does not match correctness %v", first["score"], first["correct"])
	}

	_, question = readNext(conn, t, "question")
	if question["index"].(float64) != 1 || question["progress"].(float64) != 50 {
		t.Fatalf("unexpected second question %+v", question)
	}

	sendAnswer(t, conn, "definitely wrong")
	_, second := readNext(conn, t, "answerResult")
	if second["correct"].(bool) {
		t.Fatalf("expected wrong answer, got %+v", second)
	}

	_, completed := readNext(conn, t, "completed")
	if completed["total"].(float64) != 2 || completed["score"].(float64) != expectedScore {
		t.Fatalf("unexpected result %+v", completed)
	}
	if completed["difficulty"] != "BEGINNER" {
		t.Fatalf("expected BEGINNER, got %v", completed["difficulty"])
	}
	if scores := completed["highScores"].([]any); len(scores) != 1 {
		t.Fatalf("expected one ranked entry, got %v", scores)
	}

	if got := testutil.ToFloat64(f.metrics.GamesCompleted.WithLabelValues("BEGINNER")); got != 1 {
		t.Fatalf("expected one completed game metric, got %v", got)
	}
}

func TestWebSocketReportsSmallDictionary(t *testing.T) {
	f := newFixture(3)
	server := f.server()
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, payload := readNext(conn, t, "error")
	if payload["message"] == "" {
		t.Fatalf("expected error message")
	}
}

func TestWebSocketRejectsBadQuery(t *testing.T) {
	server := newFixture(10).server()
	defer server.Close()

	for _, query := range []string{"count=zero", "difficulty=EXPERT"} {
		resp, err := http.Get(server.URL + "/ws?" + query)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, resp.StatusCode)
		}
	}
}

func sendAnswer(t *testing.T, conn *websocket.Conn, answer string) {
	t.Helper()
	msg := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"answer": answer},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write answer: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleWords(n int) []domain.WordEntry {
	words := make([]domain.WordEntry, n)
	for i := range words {
		words[i] = domain.WordEntry{
			Source:   fmt.Sprintf("ord%d", i),
			Target:   fmt.Sprintf("word%d", i),
			Category: "basics",
		}
	}
	return words
}
