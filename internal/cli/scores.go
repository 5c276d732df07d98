package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/logger"
)

// NewScoresCmd prints the ranked high scores and the score counters.
func NewScoresCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show high scores and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ledger, closeLedger, err := openPersistentLedger(cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			entries, err := ledger.List(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := ledger.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSCORE\tPERCENT\tDIFFICULTY\tDATE")
			for i, e := range entries {
				fmt.Fprintf(w, "%d\t%d/%d\t%d%%\t%s\t%s\n", i+1, e.Score, e.Total, e.Percentage(), e.Difficulty, e.FormattedDate())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nbest %d  games %d  total %d  average %.1f\n",
				stats.BestScore, stats.GamesPlayed, stats.TotalScore, stats.AverageScore)
			return nil
		},
	}
}

// NewResetCmd clears the ranked list and the score counters.
func NewResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear high scores and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ledger, closeLedger, err := openPersistentLedger(cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			if err := ledger.Reset(cmd.Context()); err != nil {
				return err
			}
			logger.New(serviceName, cfg.Log.Level).WithField("profile", cfg.Quiz.Profile).Info("scores reset")
			return nil
		},
	}
}
