package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/config"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/notify"
	"github.com/Veraticus/visawatch/internal/service"
	"github.com/Veraticus/visawatch/internal/sheets"
	"github.com/Veraticus/visawatch/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Swapped out in tests.
var (
	now       = time.Now
	newSender = notify.NewSender
)

// flagKeys maps command flags onto configuration keys. Several commands share
// a key, so flags are bound when a command runs rather than when it is built.
var flagKeys = map[string]string{
	"file":           "source.file",
	"sheet-name":     "source.sheet",
	"spreadsheet-id": "sheets.spreadsheet_id",
	"range":          "sheets.range",
	"date-column":    "tracking.date_column",
	"category":       "tracking.category",
	"contact-column": "tracking.contact_column",
	"name-column":    "tracking.name_column",
	"horizon":        "tracking.horizon_days",
	"today":          "tracking.today",
	"date-layout":    "tracking.date_layout",
	"all":            "check.all",
	"field":          "notify.field",
	"row":            "notify.row",
	"all-expiring":   "notify.all_expiring",
	"all-expired":    "notify.all_expired",
	"dry-run":        "notify.dry_run",
	"yes":            "notify.yes",
	"theme":          "browse.theme",
	"stats":          "browse.stats",
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "CSV or Excel file with one row per student")
	cmd.Flags().String("sheet-name", "", "Worksheet to read from an Excel file (default: first sheet)")
	cmd.Flags().String("spreadsheet-id", "", "Google Sheets spreadsheet ID to read instead of a file")
	cmd.Flags().String("range", "", "A1 range to read from the spreadsheet (default: "+sheets.DefaultRange+")")
}

func addTrackingFlags(cmd *cobra.Command) {
	cmd.Flags().String("date-column", "", "Column holding the expiry date (replaces configured fields)")
	cmd.Flags().String("category", "", "Label for --date-column, used in reports and emails (default: "+config.DefaultCategory+")")
	cmd.Flags().String("contact-column", "", "Column holding the student's email (default: "+config.DefaultContactColumn+")")
	cmd.Flags().String("name-column", "", "Column holding the student's name (default: "+expiry.DefaultNameColumn+" when present)")
	cmd.Flags().Int("horizon", expiry.DefaultHorizonDays, "Days ahead that count as expiring soon")
	cmd.Flags().String("today", "", "Reference date as YYYY-MM-DD (default: the current date)")
	cmd.Flags().String("date-layout", "", "Go time layout of the date cells (default: DD-MM-YYYY)")
}

func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := viper.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

// loadReport resolves configuration, loads the table and runs one
// classification pass.
func loadReport(ctx context.Context) (*config.App, *expiry.Report, error) {
	app, err := config.Load(viper.GetViper(), now())
	if err != nil {
		return nil, nil, err
	}

	loader, err := openTable(ctx, app)
	if err != nil {
		return nil, nil, err
	}

	tbl, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}

	engine, err := expiry.New(app.Tracking, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	report, err := engine.Run(tbl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to classify %s: %w", tbl.Source, err)
	}

	return app, report, nil
}

func openTable(ctx context.Context, app *config.App) (service.TableLoader, error) {
	if app.Source.Sheets != nil {
		return sheets.NewReader(ctx, *app.Source.Sheets, slog.Default())
	}
	return table.Open(app.Source.File, app.Source.Sheet, table.WithDateLayout(app.Tracking.DateLayout))
}

// buildDispatcher wires the template catalog and, when a channel is
// configured, the sender. Without a channel only previews are possible.
func buildDispatcher(ctx context.Context, app *config.App, requireSender bool) (*notify.Dispatcher, error) {
	catalog, err := notify.LoadCatalog(app.Notify.TemplatesPath)
	if err != nil {
		return nil, err
	}

	var sender notify.Sender
	if app.Notify.Configured() {
		sender, err = newSender(ctx, app.Notify)
		if err != nil {
			return nil, fmt.Errorf("failed to set up %s channel: %w", app.Notify.Channel, err)
		}
	} else if requireSender {
		return nil, common.NewUserError(
			"set notify.channel to smtp or gmail to send notifications, or use --dry-run",
			common.ErrChannelNotConfigured,
		)
	}

	return notify.NewDispatcher(sender, catalog,
		notify.WithTimeout(app.Notify.Timeout),
		notify.WithLogger(slog.Default()),
	), nil
}

// pickField returns the named field report, or the first one when name is empty.
func pickField(report *expiry.Report, name string) (expiry.FieldReport, error) {
	if name == "" {
		return report.Fields[0], nil
	}
	for _, f := range report.Fields {
		if strings.EqualFold(f.Field.Name, name) {
			return f, nil
		}
	}

	names := make([]string, 0, len(report.Fields))
	for _, f := range report.Fields {
		names = append(names, f.Field.Name)
	}
	return expiry.FieldReport{}, fmt.Errorf("%w: unknown field %q (tracked: %s)",
		common.ErrInvalidConfig, name, strings.Join(names, ", "))
}
