package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/Veraticus/visawatch/internal/cli"
	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Email students about expired or expiring dates",
		Long: `Send one reminder email per selected student.

Pick a single record with --row (1 is the first data row under the header),
or a whole bucket with --all-expiring or --all-expired. Every record gets
exactly one delivery attempt; a failure is reported and the run moves on.
Nothing is remembered between runs, so running twice sends twice.`,
		Example: `  visawatch notify --file students.csv --row 3 --dry-run
  visawatch notify --file students.csv --all-expired --field Registration
  visawatch notify --spreadsheet-id 1AbC... --all-expiring --yes`,
		RunE: runNotify,
	}

	addSourceFlags(cmd)
	addTrackingFlags(cmd)
	cmd.Flags().Int("row", 0, "Notify the student on this data row")
	cmd.Flags().Bool("all-expiring", false, "Notify every student whose date expires within the horizon")
	cmd.Flags().Bool("all-expired", false, "Notify every student whose date has passed")
	cmd.Flags().String("field", "", "Tracked field to notify about (default: the first configured field)")
	cmd.Flags().Bool("dry-run", false, "Print the messages instead of sending them")
	cmd.Flags().BoolP("yes", "y", false, "Send without asking for confirmation")

	return cmd
}

func runNotify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := bindFlags(cmd); err != nil {
		return err
	}

	app, report, err := loadReport(ctx)
	if err != nil {
		return err
	}

	field, err := pickField(report, viper.GetString("notify.field"))
	if err != nil {
		return err
	}

	targets, err := selectTargets(report, field,
		viper.GetInt("notify.row"),
		viper.GetBool("notify.all_expiring"),
		viper.GetBool("notify.all_expired"),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No %s records to notify.", field.Field.Name)))
		return err
	}

	dryRun := viper.GetBool("notify.dry_run")
	dispatcher, err := buildDispatcher(ctx, app, !dryRun)
	if err != nil {
		return err
	}

	if dryRun {
		return previewAll(out, dispatcher, targets, field.Field.Name)
	}

	if !viper.GetBool("notify.yes") {
		prompter := cli.NewPrompter(cmd.InOrStdin(), out)
		question := fmt.Sprintf("Send %d %s notification(s)?", len(targets), field.Field.Name)
		ok, err := prompter.Confirm(ctx, question)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(out, cli.FormatInfo("Nothing sent."))
			return err
		}
	}

	return sendAll(ctx, out, cmd.ErrOrStderr(), dispatcher, targets, field.Field.Name)
}

// selectTargets picks the records to notify. Exactly one selector is allowed.
func selectTargets(report *expiry.Report, field expiry.FieldReport, row int, allExpiring, allExpired bool) ([]model.ClassifiedRecord, error) {
	selectors := 0
	for _, set := range []bool{row != 0, allExpiring, allExpired} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, common.NewUserError(
			"choose exactly one of --row, --all-expiring or --all-expired",
			fmt.Errorf("%w: %d record selectors given", common.ErrInvalidConfig, selectors),
		)
	}

	switch {
	case allExpiring:
		return field.Partition.ExpiringSoon, nil
	case allExpired:
		return field.Partition.Expired, nil
	}

	if row < 1 || row > len(report.Records) {
		return nil, fmt.Errorf("%w: row %d is out of range (1-%d)", common.ErrInvalidConfig, row, len(report.Records))
	}
	return []model.ClassifiedRecord{report.Records[row-1]}, nil
}

func previewAll(out io.Writer, dispatcher service.Dispatcher, targets []model.ClassifiedRecord, field string) error {
	for _, rec := range targets {
		msg, err := dispatcher.Preview(rec.Contact, rec.TemplateContext(field))
		if err != nil {
			line := fmt.Sprintf("Row %d (%s): %v", rec.Record.Index+1, orUnnamed(rec.Name), err)
			if _, werr := fmt.Fprintln(out, cli.FormatWarning(line)); werr != nil {
				return werr
			}
			continue
		}
		if err := cli.RenderMessage(out, msg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d message(s) rendered, nothing sent.", len(targets))))
	return err
}

type failure struct {
	rec    model.ClassifiedRecord
	detail string
}

// sendAll makes one dispatch per target. Failures are collected and reported
// at the end; an interrupt stops the loop before the next dispatch.
func sendAll(ctx context.Context, out, progressOut io.Writer, dispatcher service.Dispatcher, targets []model.ClassifiedRecord, field string) error {
	var attempted atomic.Int64
	handler := cli.NewInterruptHandler(out)
	ctx, cancel := handler.HandleInterrupts(ctx, func() (int, int) {
		return int(attempted.Load()), len(targets)
	})
	defer cancel()

	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Sending %s notifications...[reset]", field)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(progressOut); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	var failures []failure
	for _, rec := range targets {
		if ctx.Err() != nil {
			break
		}

		result := dispatcher.Dispatch(ctx, rec.Contact, rec.TemplateContext(field))
		attempted.Add(1)
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}

		if !result.Delivered {
			failures = append(failures, failure{rec: rec, detail: result.Detail})
		}
	}

	done := int(attempted.Load())
	if err := printSendSummary(out, done, len(targets), failures); err != nil {
		return err
	}

	if handler.WasInterrupted() || ctx.Err() != nil {
		return fmt.Errorf("notification run stopped after %d of %d: %w", done, len(targets), context.Cause(ctx))
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d notifications failed", len(failures), done)
	}
	return nil
}

func printSendSummary(out io.Writer, done, total int, failures []failure) error {
	sent := done - len(failures)
	lines := []string{cli.FormatSuccess(fmt.Sprintf("Sent %d of %d notification(s)", sent, total))}
	for _, f := range failures {
		lines = append(lines, cli.FormatError(fmt.Sprintf("Row %d %s <%s>: %s",
			f.rec.Record.Index+1, orUnnamed(f.rec.Name), f.rec.Contact, f.detail)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func orUnnamed(name string) string {
	if name == "" {
		return "(no name)"
	}
	return name
}
