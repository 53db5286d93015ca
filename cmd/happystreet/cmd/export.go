package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sahil-chaple/happy-street-godhani/internal/config"
	"github.com/sahil-chaple/happy-street-godhani/internal/service"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every submission as CSV",
	Long: `Export reads every stored submission and writes the same CSV the admin
panel downloads. Output goes to stdout unless --out is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Logs go to stderr; stdout carries only the CSV.
		logger := config.NewLogger(cfg.Logging).Output(cmd.ErrOrStderr())

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		store, err := openStore(ctx, cfg.Store, logger)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		data, err := service.NewSubmissionService(store.Submissions(), cfg.Export.Location).ExportCSV(ctx)
		if err != nil {
			return err
		}

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		logger.Info().Str("file", exportOut).Msg("export written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout, file name "+service.ExportFilename+" recommended)")
}
