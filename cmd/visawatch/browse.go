package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/config"
	"github.com/Veraticus/visawatch/internal/tui"
	"github.com/Veraticus/visawatch/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse records interactively and send notifications",
		Long: `Open an interactive view of the classified table.

  tab      cycle All / Expiring soon / Expired
  f        switch tracked field (visa, registration, ...)
  enter    preview the notification for the selected student
  y / n    send or cancel the previewed notification
  r        reload the table and reclassify against today
  ?        help
  q        quit`,
		RunE: runBrowse,
	}

	addSourceFlags(cmd)
	addTrackingFlags(cmd)
	cmd.Flags().String("theme", "default", "Colour theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("stats", true, "Show the summary panel")
	cmd.Flags().String("log-file", "", "Write logs to this file while the browser is open")

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := bindFlags(cmd); err != nil {
		return err
	}

	app, err := config.Load(viper.GetViper(), now())
	if err != nil {
		return err
	}

	logger, closeLog, err := browseLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	// The dispatcher and loaders log through the default logger.
	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)

	loader, err := openTable(ctx, app)
	if err != nil {
		return err
	}

	dispatcher, err := buildDispatcher(ctx, app, false)
	if err != nil {
		return err
	}

	clock := now
	if viper.GetString("tracking.today") != "" {
		pinned := app.Tracking.Today
		clock = func() time.Time { return pinned }
	}

	return tui.Run(ctx,
		tui.WithLoader(loader),
		tui.WithOptions(app.Tracking),
		tui.WithDispatcher(dispatcher),
		tui.WithClock(clock),
		tui.WithLogger(logger),
		tui.WithTheme(themes.GetTheme(viper.GetString("browse.theme"))),
		tui.WithStats(viper.GetBool("browse.stats")),
	)
}

// browseLogger keeps log output off the terminal while the browser owns it.
func browseLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(config.ExpandPath(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger, err := common.NewLogger(f, level, viper.GetString("logging.format"))
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return logger, func() { _ = f.Close() }, nil
}
