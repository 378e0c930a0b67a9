package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "service account",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-1",
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
		},
		{
			name: "oauth credentials",
			config: Config{
				ClientID:      "client",
				ClientSecret:  "secret",
				RefreshToken:  "token",
				SpreadsheetID: "sheet-1",
			},
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:      "test-client",
				RefreshToken:  "test-token",
				SpreadsheetID: "sheet-1",
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "client",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-1",
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name:    "missing spreadsheet id",
			config:  Config{ServiceAccountPath: "/path/to/key.json"},
			wantErr: true,
			errMsg:  "spreadsheet id is required",
		},
		{
			name: "negative retry attempts",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-1",
				RetryAttempts:      -1,
			},
			wantErr: true,
			errMsg:  "retry attempts cannot be negative",
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				SpreadsheetID:      "sheet-1",
				RetryAttempts:      3,
				RetryDelay:         -1 * time.Second,
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidation_Sentinels(t *testing.T) {
	c := Config{}
	assert.ErrorIs(t, c.Validate(), common.ErrMissingConfig)

	c = Config{ServiceAccountPath: "k.json", SpreadsheetID: "s", RetryAttempts: -2}
	assert.ErrorIs(t, c.Validate(), common.ErrInvalidConfig)
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, DefaultRange, c.Range)
	assert.Equal(t, 3, c.RetryAttempts)
	assert.Equal(t, time.Second, c.RetryDelay)

	c.Range = ""
	assert.Equal(t, DefaultRange, c.rangeOrDefault())
}
