package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/tui"
)

var logFile string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse breweries in the terminal",
	Long: `Opens an interactive table of breweries.

Keys:
  /          focus the search box, enter submits
  enter      open the selected brewery
  ctrl+r     reset the search
  n, p       next and previous page (also right and left)
  s          toggle name sort
  esc        back from the detail view
  q          quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the UI, so logs only go to a file.
		logger = zap.NewNop()
		if logFile != "" {
			var err error
			logger, err = newLogger(cfg.Log, verbose, logFile)
			if err != nil {
				return err
			}
		}
		return runBrowser(cmd.Context())
	},
}

func init() {
	browseCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.AddCommand(browseCmd)
}

func runBrowser(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := catalog.NewClient(cfg.Catalog, logger.Named("catalog"))
	m := tui.New(ctx, client, logger.Named("tui"))

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("terminal browser: %w", err)
	}
	return nil
}
