package config

import (
	"os"

	"github.com/Veraticus/visawatch/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. Credentials resolve to
// one authentication method. Precedence:
// 1. sheets.* keys (config file or VISAWATCH_ env vars)
// 2. direct environment variables (GOOGLE_SHEETS_*)
// 3. shared google.* keys, a service account winning over a refresh token
// 4. default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	auth := resolveGoogleAuth(v, "sheets", "GOOGLE_SHEETS_", preferServiceAccount)
	config.ServiceAccountPath = auth.ServiceAccountPath
	config.ClientID = auth.ClientID
	config.ClientSecret = auth.ClientSecret
	config.RefreshToken = auth.RefreshToken

	config.SpreadsheetID = firstNonEmpty(
		v.GetString("sheets.spreadsheet_id"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
	)
	if r := v.GetString("sheets.range"); r != "" {
		config.Range = r
	}
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		config.RetryDelay = v.GetDuration("sheets.retry_delay")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SheetsRequested reports whether a spreadsheet id has been configured at all.
func SheetsRequested(v *viper.Viper) bool {
	return firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")) != ""
}
