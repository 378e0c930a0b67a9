package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
)

// ReportOptions controls RenderReport.
type ReportOptions struct {
	// ShowAll adds a table of every record with its status.
	ShowAll bool
}

// RenderReport writes the per-field expiring-soon and expired lists.
func RenderReport(w io.Writer, report *expiry.Report, opts ReportOptions) error {
	var b strings.Builder

	b.WriteString(FormatTitle("Expiry check for "+report.Today.Format("Mon 02 Jan 2006")) + "\n")
	if report.Source != "" {
		b.WriteString(SubtleStyle.Render("source: "+report.Source) + "\n")
	}

	for _, f := range report.Fields {
		b.WriteString("\n")
		b.WriteString(renderField(report, f, opts))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderField(report *expiry.Report, f expiry.FieldReport, opts ReportOptions) string {
	var b strings.Builder
	name := f.Field.Name
	p := f.Partition

	b.WriteString(BoldStyle.Render(fmt.Sprintf("%s (%s)", name, f.Field.Column)) + "\n")
	b.WriteString(FormatSummary(p.Summary, f.Horizon) + "\n")
	if f.Unparsed > 0 {
		b.WriteString(FormatWarning(fmt.Sprintf("%d value(s) in %q did not match %s and were treated as missing",
			f.Unparsed, f.Field.Column, report.DateLayout)) + "\n")
	}

	b.WriteString("\n")
	if len(p.ExpiringSoon) == 0 {
		b.WriteString(FormatInfo(fmt.Sprintf("No %s expiring in the next %d days.", strings.ToLower(name), f.Horizon)) + "\n")
	} else {
		b.WriteString(WarningStyle.Bold(true).Render(fmt.Sprintf("Expiring soon (%d)", len(p.ExpiringSoon))) + "\n")
		b.WriteString(recordTable(p.ExpiringSoon, name, report.DateLayout, false))
	}

	if len(p.Expired) > 0 {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Bold(true).Render(fmt.Sprintf("Expired (%d)", len(p.Expired))) + "\n")
		b.WriteString(recordTable(p.Expired, name, report.DateLayout, false))
	}

	if opts.ShowAll {
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render(fmt.Sprintf("All records (%d)", len(report.Records))) + "\n")
		b.WriteString(recordTable(report.Records, name, report.DateLayout, true))
	}

	return b.String()
}

// FormatSummary renders counts as a single line.
func FormatSummary(c model.Counts, horizon int) string {
	return fmt.Sprintf("%d records: %s, %s",
		c.Total,
		WarningStyle.Render(fmt.Sprintf("%d expiring within %d days", c.ExpiringSoon, horizon)),
		ErrorStyle.Render(fmt.Sprintf("%d expired", c.Expired)))
}

// FormatDelta describes a day delta relative to today.
func FormatDelta(delta *int) string {
	switch {
	case delta == nil:
		return "-"
	case *delta == 0:
		return "today"
	case *delta == 1:
		return "in 1 day"
	case *delta > 1:
		return fmt.Sprintf("in %d days", *delta)
	case *delta == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -*delta)
	}
}

func recordTable(records []model.ClassifiedRecord, field, layout string, withStatus bool) string {
	header := []string{"#", "Name", "Contact", "Expiry", "When"}
	if withStatus {
		header = append(header, "Status")
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range records {
		res := r.Result(field)
		shown := dates.Format(res.Date, layout)
		if res.Missing() {
			shown = orDash(res.Raw)
		}
		cells := []string{
			fmt.Sprintf("%d", r.Record.Index+1),
			orDash(r.Name),
			orDash(r.Contact),
			shown,
			FormatDelta(res.DayDelta),
		}
		if withStatus {
			cells = append(cells, statusLabel(res.Classification))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()

	// style whole lines after alignment so escape codes do not skew columns
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	var out strings.Builder
	for i, line := range lines {
		if i == 0 {
			out.WriteString(SubtleStyle.Render(line))
		} else {
			out.WriteString(ClassificationStyle(records[i-1].Result(field).Classification).Render(line))
		}
		out.WriteString("\n")
	}
	return out.String()
}

func statusLabel(c model.Classification) string {
	switch c {
	case model.ClassificationExpired:
		return "expired"
	case model.ClassificationExpiringSoon:
		return "expiring soon"
	default:
		return "ok"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderMessage writes a notification preview.
func RenderMessage(w io.Writer, msg model.Message) error {
	content := fmt.Sprintf("%s %s\n%s %s\n\n%s",
		SubtleStyle.Render("To:"), msg.To,
		SubtleStyle.Render("Subject:"), BoldStyle.Render(msg.Subject),
		msg.Body)
	_, err := fmt.Fprintln(w, RenderBox(MailIcon+" Notification preview", content))
	return err
}
