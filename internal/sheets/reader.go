package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/service"
	"github.com/Veraticus/visawatch/internal/table"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Reader loads one range of a spreadsheet as a table. The first row is the header.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ service.TableLoader = (*Reader)(nil)

// NewReader creates a reader authenticated with a service account or an
// OAuth2 refresh token.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, err
	}

	return NewReaderWithService(srv, config, logger), nil
}

// NewReaderWithService wraps an existing Sheets service.
func NewReaderWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{service: srv, config: config, logger: logger}
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}

		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// Load fetches the configured range using displayed values, so dates arrive
// exactly as the sheet shows them.
func (r *Reader) Load(ctx context.Context) (*model.Table, error) {
	rng := r.config.rangeOrDefault()
	source := fmt.Sprintf("sheets:%s!%s", r.config.SpreadsheetID, rng)

	var resp *sheets.ValueRange
	err := common.WithRetry(ctx, func() error {
		v, err := r.service.Spreadsheets.Values.Get(r.config.SpreadsheetID, rng).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		if err != nil {
			return classifyAPIError(err)
		}
		resp = v
		return nil
	}, service.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts + 1,
		InitialDelay: r.config.RetryDelay,
		Multiplier:   2.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}

	r.logger.Debug("loaded spreadsheet range", "source", source, "rows", len(rows))
	return table.FromRows(source, rows)
}

// classifyAPIError marks client errors other than throttling as permanent.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}
