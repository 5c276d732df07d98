package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"
)

// WordStore supplies the dictionary, most frequent entries first.
type WordStore interface {
	AllEntries(ctx context.Context) ([]domain.WordEntry, error)
}

// GameService contains the quiz use cases: start a quiz, answer it, and
// record the result.
type GameService struct {
	words    WordStore
	engine   *QuizEngine
	ledger   *ScoreLedger
	settings *Settings
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

func NewGameService(
	words WordStore,
	engine *QuizEngine,
	ledger *ScoreLedger,
	settings *Settings,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) *GameService {
	return &GameService{
		words:    words,
		engine:   engine,
		ledger:   ledger,
		settings: settings,
		metrics:  m,
		log:      log,
	}
}

// GameOptions selects the quiz shape. Zero values use the saved settings.
type GameOptions struct {
	Difficulty    string
	QuestionCount int
}

// AnswerOutcome describes how a single answer was judged.
type AnswerOutcome struct {
	Question domain.Question
	Answer   string
	Correct  bool
}

// GameResult is everything shown once the last question is answered.
type GameResult struct {
	Score      int                     `json:"score"`
	Total      int                     `json:"total"`
	Percentage int                     `json:"percentage"`
	Difficulty string                  `json:"difficulty"`
	NewBest    bool                    `json:"newBest"`
	Message    string                  `json:"message"`
	Stats      domain.Stats            `json:"stats"`
	HighScores []domain.HighScoreEntry `json:"highScores"`
}

// Start loads the dictionary and creates a new session.
func (s *GameService) Start(ctx context.Context, opts GameOptions) (Session, error) {
	difficulty, count, err := s.resolveOptions(ctx, opts)
	if err != nil {
		return Session{}, err
	}

	words, err := s.words.AllEntries(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load dictionary: %w", err)
	}

	session, err := s.engine.CreateSession(words, count, difficulty)
	if err != nil {
		return Session{}, err
	}

	s.metrics.GameStarted(difficulty.Name)
	s.log.WithFields(logrus.Fields{
		"difficulty": difficulty.Name,
		"requested":  count,
		"questions":  session.Len(),
		"dictionary": len(words),
	}).Debug("quiz created")
	return session, nil
}

// Answer applies one answer. ok is false when the session had no question
// left, in which case the session is returned unchanged.
func (s *GameService) Answer(session Session, answer string) (Session, AnswerOutcome, bool) {
	q, ok := session.CurrentQuestion()
	if !ok {
		return session, AnswerOutcome{}, false
	}
	next := s.engine.SubmitAnswer(session, answer)
	correct := next.Score() > session.Score()
	s.metrics.Answered(correct)
	return next, AnswerOutcome{Question: q, Answer: answer, Correct: correct}, true
}

// Finish records a completed session in the ranked list and the score
// counters with one write, so they never disagree.
func (s *GameService) Finish(ctx context.Context, session Session) (GameResult, error) {
	if !session.IsComplete() {
		return GameResult{}, domain.ErrSessionIncomplete
	}

	difficulty := session.Difficulty().Name
	_, newBest, err := s.ledger.RecordGame(ctx, session.Score(), session.Len(), difficulty)
	if err != nil {
		return GameResult{}, fmt.Errorf("record game: %w", err)
	}
	stats, err := s.ledger.Stats(ctx)
	if err != nil {
		return GameResult{}, err
	}
	scores, err := s.ledger.List(ctx)
	if err != nil {
		return GameResult{}, err
	}

	percentage := domain.Percentage(session.Score(), session.Len())
	s.metrics.GameCompleted(difficulty, percentage)
	s.log.WithFields(logrus.Fields{
		"difficulty": difficulty,
		"score":      session.Score(),
		"total":      session.Len(),
		"new_best":   newBest,
	}).Info("quiz completed")

	return GameResult{
		Score:      session.Score(),
		Total:      session.Len(),
		Percentage: percentage,
		Difficulty: difficulty,
		NewBest:    newBest,
		Message:    domain.PerformanceMessage(percentage),
		Stats:      stats,
		HighScores: scores,
	}, nil
}

func (s *GameService) HighScores(ctx context.Context) ([]domain.HighScoreEntry, error) {
	return s.ledger.List(ctx)
}

func (s *GameService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.ledger.Stats(ctx)
}

// ResetScores forgets the ranked list and the score counters.
func (s *GameService) ResetScores(ctx context.Context) error {
	if err := s.ledger.Reset(ctx); err != nil {
		return err
	}
	s.log.Info("scores reset")
	return nil
}

func (s *GameService) resolveOptions(ctx context.Context, opts GameOptions) (domain.Difficulty, int, error) {
	var difficulty domain.Difficulty
	if opts.Difficulty != "" {
		difficulty = domain.ParseDifficulty(opts.Difficulty)
	} else {
		d, err := s.settings.Difficulty(ctx)
		if err != nil {
			return domain.Difficulty{}, 0, fmt.Errorf("load difficulty setting: %w", err)
		}
		difficulty = d
	}

	count := opts.QuestionCount
	if count <= 0 {
		n, err := s.settings.QuestionCount(ctx)
		if err != nil {
			return domain.Difficulty{}, 0, fmt.Errorf("load question count setting: %w", err)
		}
		count = n
	}
	return difficulty, count, nil
}
