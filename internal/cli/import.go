package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/infra/file"
	"vocab-quiz-service/internal/infra/postgres"
	"vocab-quiz-service/internal/logger"
)

// NewImportCmd loads a JSON dictionary into Postgres, replacing the
// current words.
func NewImportCmd(configPath *string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON dictionary into the words table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(serviceName, cfg.Log.Level)
			if path == "" {
				path = cfg.Dictionary.Path
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read dictionary: %w", err)
			}
			words, err := file.Parse(data)
			if err != nil {
				return err
			}

			if err := runMigrations(cmd.Context(), cfg, log); err != nil {
				return err
			}
			db := postgres.OpenDB(cfg.Postgres.URL)
			defer db.Close()

			n, err := postgres.NewWordImporter(db).Import(cmd.Context(), words)
			if err != nil {
				return err
			}
			log.WithField("words", n).WithField("path", path).Info("dictionary imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "dictionary file (defaults to dictionary.path)")
	return cmd
}
