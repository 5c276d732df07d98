package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"vocab-quiz-service/internal/domain"
)

type wordRow struct {
	bun.BaseModel `bun:"table:words"`

	ID            int64  `bun:"id,pk,autoincrement"`
	FrequencyRank int    `bun:"frequency_rank,notnull"`
	Source        string `bun:"source,notnull"`
	Target        string `bun:"target,notnull"`
	Category      string `bun:"category,notnull"`
	PhoneticHint  string `bun:"phonetic_hint,notnull"`
	AudioRef      string `bun:"audio_ref,notnull"`
}

const importBatchSize = 500

// OpenDB opens a bun handle on the pg driver.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// WordImporter replaces the words table with a dictionary.
type WordImporter struct {
	db *bun.DB
}

func NewWordImporter(db *bun.DB) *WordImporter {
	return &WordImporter{db: db}
}

// Import stores words in one transaction. The slice position becomes the
// frequency rank, so the loader returns them in the same order.
func (i *WordImporter) Import(ctx context.Context, words []domain.WordEntry) (int, error) {
	if err := domain.ValidateEntries(words); err != nil {
		return 0, err
	}

	rows := make([]wordRow, len(words))
	for n, w := range words {
		rows[n] = wordRow{
			FrequencyRank: n + 1,
			Source:        w.Source,
			Target:        w.Target,
			Category:      w.Category,
			PhoneticHint:  w.PhoneticHint,
			AudioRef:      w.AudioRef,
		}
	}

	err := i.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*wordRow)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("clear words: %w", err)
		}
		for start := 0; start < len(rows); start += importBatchSize {
			end := start + importBatchSize
			if end > len(rows) {
				end = len(rows)
			}
			batch := rows[start:end]
			if _, err := tx.NewInsert().Model(&batch).Exec(ctx); err != nil {
				return fmt.Errorf("insert words: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
