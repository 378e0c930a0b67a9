package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/notify"
	"github.com/Veraticus/visawatch/internal/sheets"
	"github.com/spf13/viper"
)

// Source says where the table comes from: a local file or a spreadsheet.
type Source struct {
	Sheets *sheets.Config
	File   string
	Sheet  string
}

// App is the fully resolved configuration of one command run.
type App struct {
	Source   Source
	Tracking expiry.Options
	Notify   notify.Config
}

// Load resolves every section and validates it. A source is required: either
// source.file or a spreadsheet id, not both.
func Load(v *viper.Viper, now time.Time) (*App, error) {
	tracking, err := LoadTrackingOptions(v, now)
	if err != nil {
		return nil, err
	}

	notifyConfig, err := LoadNotifyConfig(v)
	if err != nil {
		return nil, err
	}

	app := &App{
		Tracking: *tracking,
		Notify:   *notifyConfig,
		Source: Source{
			File:  ExpandPath(v.GetString("source.file")),
			Sheet: v.GetString("source.sheet"),
		},
	}

	switch {
	case app.Source.File != "" && SheetsRequested(v):
		return nil, fmt.Errorf("%w: use either a file or a spreadsheet id, not both", common.ErrInvalidConfig)
	case SheetsRequested(v):
		sheetsConfig, err := LoadSheetsConfig(v)
		if err != nil {
			return nil, err
		}
		app.Source.Sheets = sheetsConfig
	case app.Source.File == "":
		return nil, common.NewUserError(
			"pass --file or --spreadsheet-id (or set source.file / sheets.spreadsheet_id)",
			fmt.Errorf("%w: no input table", common.ErrMissingConfig),
		)
	}

	return app, nil
}
