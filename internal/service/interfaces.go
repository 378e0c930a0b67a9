// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/visawatch/internal/model"
)

// TableLoader produces the in-memory table of records for one session.
type TableLoader interface {
	Load(ctx context.Context) (*model.Table, error)
}

// Dispatcher sends one notification per call and reports the outcome.
// Implementations never return an error; failures are carried in the result.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipient string, tctx model.TemplateContext) model.NotificationResult
	Preview(recipient string, tctx model.TemplateContext) (model.Message, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
