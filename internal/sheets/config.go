// Package sheets reads student records from a Google Sheets spreadsheet.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
)

// DefaultRange covers the first worksheet.
const DefaultRange = "A:ZZ"

// Config holds the configuration for the Google Sheets reader.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	Range              string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Range:         DefaultRange,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet id is required", common.ErrMissingConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}

func (c *Config) rangeOrDefault() string {
	if c.Range == "" {
		return DefaultRange
	}
	return c.Range
}
