package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"vocab-quiz-service/internal/domain"
)

// WordLoader loads the dictionary from the words table, most frequent first.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

func (l *WordLoader) LoadWords(ctx context.Context) ([]domain.WordEntry, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT source, target, category, phonetic_hint, audio_ref
		FROM words
		ORDER BY frequency_rank, id`)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	var words []domain.WordEntry
	for rows.Next() {
		var w domain.WordEntry
		if err := rows.Scan(&w.Source, &w.Target, &w.Category, &w.PhoneticHint, &w.AudioRef); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	return words, nil
}
