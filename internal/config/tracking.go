package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/spf13/viper"
)

// Defaults for the tracking.* keys.
const (
	DefaultContactColumn = "Email"
	DefaultDateColumn    = "Visa Expiry"
	DefaultCategory      = "Visa"
	// TodayLayout is the layout of the tracking.today override.
	TodayLayout = "2006-01-02"
)

// LoadTrackingOptions builds the classification options. A tracking.date_column
// (the --date-column flag) replaces the configured field list with a single
// field named by tracking.category. The reference date is taken from
// tracking.today when set, otherwise from now.
func LoadTrackingOptions(v *viper.Viper, now time.Time) (*expiry.Options, error) {
	opts := expiry.Options{
		HorizonDays:   expiry.DefaultHorizonDays,
		DateLayout:    firstNonEmpty(v.GetString("tracking.date_layout"), dates.DefaultLayout),
		ContactColumn: firstNonEmpty(v.GetString("tracking.contact_column"), DefaultContactColumn),
		NameColumn:    strings.TrimSpace(v.GetString("tracking.name_column")),
	}
	if v.IsSet("tracking.horizon_days") {
		opts.HorizonDays = v.GetInt("tracking.horizon_days")
	}

	if column := v.GetString("tracking.date_column"); column != "" {
		opts.Fields = []expiry.FieldConfig{{
			Name:   firstNonEmpty(v.GetString("tracking.category"), DefaultCategory),
			Column: column,
		}}
	} else {
		if err := v.UnmarshalKey("tracking.fields", &opts.Fields); err != nil {
			return nil, fmt.Errorf("%w: tracking.fields: %w", common.ErrInvalidConfig, err)
		}
		if len(opts.Fields) == 0 {
			opts.Fields = []expiry.FieldConfig{{Name: DefaultCategory, Column: DefaultDateColumn}}
		}
	}

	opts.Today = dates.Today(now)
	if raw := v.GetString("tracking.today"); raw != "" {
		t, err := time.Parse(TodayLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: tracking.today %q must be YYYY-MM-DD", common.ErrInvalidConfig, raw)
		}
		opts.Today = t
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &opts, nil
}
