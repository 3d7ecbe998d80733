package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/config"
	pgstore "quizmaster-service/internal/infra/postgres"
)

// NewExportCmd dumps a quiz's responses to a spreadsheet file.
func NewExportCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <quizId>",
		Short: "Export a quiz's responses as an xlsx spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *configPath, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to quiz_responses_<quizId>.xlsx)")
	return cmd
}

func runExport(ctx context.Context, configPath, quizID, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured; export needs a persistent store")
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	export := app.NewExportService(pgstore.NewQuizStore(pool), pgstore.NewResponseStore(pool))
	file, name, err := export.Workbook(ctx, quizID)
	if err != nil {
		return err
	}
	if output == "" {
		output = name
	}
	if err := file.SaveAs(output); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}
