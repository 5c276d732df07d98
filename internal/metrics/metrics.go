package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the quiz counters. A nil *Metrics records nothing.
type Metrics struct {
	GamesStarted   *prometheus.CounterVec
	GamesCompleted *prometheus.CounterVec
	Answers        *prometheus.CounterVec
	ScorePercent   prometheus.Histogram
	ActiveGames    prometheus.Gauge
}

// New registers the quiz metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GamesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vocab_quiz",
				Name:      "games_started_total",
				Help:      "Quizzes created, by difficulty",
			},
			[]string{"difficulty"},
		),
		GamesCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vocab_quiz",
				Name:      "games_completed_total",
				Help:      "Quizzes answered to the last question, by difficulty",
			},
			[]string{"difficulty"},
		),
		Answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vocab_quiz",
				Name:      "answers_total",
				Help:      "Submitted answers, by result",
			},
			[]string{"result"},
		),
		ScorePercent: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "vocab_quiz",
				Name:      "score_percent",
				Help:      "Final score percentage of completed quizzes",
				Buckets:   prometheus.LinearBuckets(10, 10, 10),
			},
		),
		ActiveGames: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "vocab_quiz",
				Name:      "active_games",
				Help:      "Websocket games currently in progress",
			},
		),
	}
}

func (m *Metrics) GameStarted(difficulty string) {
	if m == nil {
		return
	}
	m.GamesStarted.WithLabelValues(difficulty).Inc()
}

func (m *Metrics) GameCompleted(difficulty string, percent int) {
	if m == nil {
		return
	}
	m.GamesCompleted.WithLabelValues(difficulty).Inc()
	m.ScorePercent.Observe(float64(percent))
}

func (m *Metrics) Answered(correct bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

// TrackGame marks a game as active until the returned func is called.
func (m *Metrics) TrackGame() func() {
	if m == nil {
		return func() {}
	}
	m.ActiveGames.Inc()
	return m.ActiveGames.Dec
}
