package expiry

import (
	"fmt"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/dates"
)

// FieldConfig describes one tracked-date column. Name doubles as the category
// label in notifications ("Visa", "Registration").
type FieldConfig struct {
	Name        string `mapstructure:"name"`
	Column      string `mapstructure:"column"`
	HorizonDays *int   `mapstructure:"horizon_days"`
}

// Options configures one classification pass.
type Options struct {
	Today         time.Time
	DateLayout    string
	ContactColumn string
	NameColumn    string
	Fields        []FieldConfig
	HorizonDays   int
}

// Horizon returns the field's own horizon or the pass-wide default.
func (o Options) Horizon(field FieldConfig) int {
	if field.HorizonDays != nil {
		return *field.HorizonDays
	}
	return o.HorizonDays
}

// Validate rejects options that would make classification meaningless.
func (o Options) Validate() error {
	if o.Today.IsZero() {
		return fmt.Errorf("%w: reference date is not set", common.ErrInvalidConfig)
	}
	if o.HorizonDays < 0 {
		return fmt.Errorf("%w: horizon must not be negative, got %d", common.ErrInvalidConfig, o.HorizonDays)
	}
	if len(o.Fields) == 0 {
		return fmt.Errorf("%w: at least one tracked date field is required", common.ErrInvalidConfig)
	}
	if o.ContactColumn == "" {
		return fmt.Errorf("%w: contact column is required", common.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(o.Fields))
	for _, f := range o.Fields {
		if f.Name == "" || f.Column == "" {
			return fmt.Errorf("%w: tracked field needs both a name and a column", common.ErrInvalidConfig)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate tracked field %q", common.ErrInvalidConfig, f.Name)
		}
		seen[f.Name] = true
		if f.HorizonDays != nil && *f.HorizonDays < 0 {
			return fmt.Errorf("%w: horizon for %q must not be negative", common.ErrInvalidConfig, f.Name)
		}
	}

	return nil
}

func (o Options) layout() string {
	if o.DateLayout == "" {
		return dates.DefaultLayout
	}
	return o.DateLayout
}
