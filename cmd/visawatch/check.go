package main

import (
	"github.com/Veraticus/visawatch/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show expired and soon-to-expire records",
		Long: `Load the student table, classify every tracked expiry date against
today and print who has already expired and who expires within the horizon.

Expired records are listed most overdue first; expiring records soonest first.
Dates that are empty or do not match the date layout are treated as missing.`,
		Example: `  visawatch check --file students.xlsx
  visawatch check --file students.csv --date-column "Registration Expiry" --category Registration --horizon 14
  visawatch check --spreadsheet-id 1AbC... --today 2025-01-01`,
		RunE: runCheck,
	}

	addSourceFlags(cmd)
	addTrackingFlags(cmd)
	cmd.Flags().Bool("all", false, "Also list every record with its status")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}

	_, report, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}

	return cli.RenderReport(cmd.OutOrStdout(), report, cli.ReportOptions{
		ShowAll: viper.GetBool("check.all"),
	})
}
