package notification

import (
	"context"

	"silverarcade/models"
)

// Notifier sends guest-facing emails for reservation lifecycle events.
// Delivery is best effort; callers log failures and continue.
type Notifier interface {
	// SendAcknowledgement tells the guest their request was received and is
	// pending review.
	SendAcknowledgement(ctx context.Context, res *models.Reservation) error

	// SendConfirmation tells the guest their reservation was confirmed.
	SendConfirmation(ctx context.Context, res *models.Reservation) error
}

// Noop discards every notification. Used when SMTP is not configured.
type Noop struct{}

func (Noop) SendAcknowledgement(ctx context.Context, res *models.Reservation) error { return nil }
func (Noop) SendConfirmation(ctx context.Context, res *models.Reservation) error    { return nil }
