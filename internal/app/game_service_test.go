package app_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/logger"
	"vocab-quiz-service/internal/metrics"
)

func newTestService(t *testing.T) (*app.GameService, *app.Settings, *metrics.Metrics) {
	t.Helper()
	store := memory.NewPreferenceStore()
	dictionary := memory.NewDictionaryRepository(memory.NewStaticWordLoader(numberedWords(12)), 0)
	settings := app.NewSettings(store)
	m := metrics.New(prometheus.NewRegistry())
	service := app.NewGameService(
		dictionary,
		app.NewQuizEngine(rand.New(rand.NewSource(11))),
		app.NewScoreLedger(store),
		settings,
		m,
		logger.Discard(),
	)
	return service, settings, m
}

func TestGameFlowRecordsResult(t *testing.T) {
	ctx := context.Background()
	service, _, m := newTestService(t)

	session, err := service.Start(ctx, app.GameOptions{Difficulty: "BEGINNER", QuestionCount: 3})
	require.NoError(t, err)
	require.Equal(t, 3, session.Len())
	assert.Equal(t, domain.Beginner, session.Difficulty())

	_, err = service.Finish(ctx, session)
	assert.True(t, errors.Is(err, domain.ErrSessionIncomplete))

	answers := []bool{true, false, true}
	for _, right := range answers {
		q, ok := session.CurrentQuestion()
		require.True(t, ok)
		answer := "nope"
		if right {
			answer = q.CorrectAnswer
		}
		var outcome app.AnswerOutcome
		session, outcome, ok = service.Answer(session, answer)
		require.True(t, ok)
		assert.Equal(t, right, outcome.Correct)
		assert.Equal(t, q, outcome.Question)
	}

	_, _, ok := service.Answer(session, "late")
	assert.False(t, ok)

	result, err := service.Finish(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 66, result.Percentage)
	assert.Equal(t, "BEGINNER", result.Difficulty)
	assert.True(t, result.NewBest)
	assert.Equal(t, domain.PerformanceMessage(66), result.Message)
	assert.Equal(t, 1, result.Stats.GamesPlayed)
	require.Len(t, result.HighScores, 1)
	assert.Equal(t, 2, result.HighScores[0].Score)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Answers.WithLabelValues("correct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("incorrect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesCompleted.WithLabelValues("BEGINNER")))
}

func TestStartUsesSavedSettings(t *testing.T) {
	ctx := context.Background()
	service, settings, _ := newTestService(t)
	require.NoError(t, settings.SetQuestionCount(ctx, 5))
	require.NoError(t, settings.SetDifficulty(ctx, domain.Advanced))

	session, err := service.Start(ctx, app.GameOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, session.Len())
	assert.Equal(t, domain.Advanced, session.Difficulty())
}

func TestStartSurfacesSmallDictionary(t *testing.T) {
	store := memory.NewPreferenceStore()
	service := app.NewGameService(
		memory.NewDictionaryRepository(memory.NewStaticWordLoader(numberedWords(2)), 0),
		app.NewQuizEngine(app.NewRandom()),
		app.NewScoreLedger(store),
		app.NewSettings(store),
		nil,
		logger.Discard(),
	)

	_, err := service.Start(context.Background(), app.GameOptions{QuestionCount: 10})
	assert.True(t, errors.Is(err, domain.ErrInsufficientDictionary), "got %v", err)
}

func TestConcurrentFinishKeepsEveryGame(t *testing.T) {
	ctx := context.Background()
	service, _, m := newTestService(t)

	const games = 100
	sessions := make([]app.Session, games)
	for i := range sessions {
		session, err := service.Start(ctx, app.GameOptions{QuestionCount: 4})
		require.NoError(t, err)
		for !session.IsComplete() {
			q, _ := session.CurrentQuestion()
			session, _, _ = service.Answer(session, q.CorrectAnswer)
		}
		sessions[i] = session
	}

	var wg sync.WaitGroup
	errs := make(chan error, games)
	for _, session := range sessions {
		wg.Add(1)
		go func(session app.Session) {
			defer wg.Done()
			_, err := service.Finish(ctx, session)
			errs <- err
		}(session)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, games, stats.GamesPlayed)
	assert.Equal(t, 4*games, stats.TotalScore)
	assert.Equal(t, 4, stats.BestScore)

	scores, err := service.HighScores(ctx)
	require.NoError(t, err)
	assert.Len(t, scores, app.MaxHighScores)
	assert.Equal(t, float64(games), testutil.ToFloat64(m.GamesCompleted.WithLabelValues("ALL")))
}
