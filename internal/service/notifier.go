package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/timvest/intake-server-go/internal/model"
)

// Notifier is told about each accepted submission. Delivery is best effort.
type Notifier interface {
	ApplicationReceived(ctx context.Context, app *model.Application) error
}

// LogNotifier records the confirmation that would be sent to the applicant.
type LogNotifier struct{}

func (LogNotifier) ApplicationReceived(ctx context.Context, app *model.Application) error {
	log.Info().
		Int64("applicationId", app.ID).
		Str("companyName", app.CompanyName).
		Str("email", app.Email).
		Msg("application received")
	return nil
}
