package reservation

import (
	"context"

	reservationRepo "silverarcade/database/repository/reservation"
	"silverarcade/models"
	"silverarcade/services/events"
	"silverarcade/services/notification"
	"silverarcade/services/table"
)

// Manager owns the reservation lifecycle for all three kinds. Status moves
// through UpdateStatus drive the table state machine for restaurant bookings.
type Manager interface {
	Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error)
	Get(ctx context.Context, kind models.Kind, id string) (*models.Reservation, error)
	List(ctx context.Context, kind models.Kind, filter models.ReservationFilter) (*models.ReservationPage, error)
	Update(ctx context.Context, kind models.Kind, id string, res *models.Reservation) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, kind models.Kind, id string, status models.ReservationStatus, actor models.Actor) (*models.Reservation, error)
	Delete(ctx context.Context, kind models.Kind, id string, actor models.Actor) error
}

// DefaultManager is the production Manager over the Mongo repository.
type DefaultManager struct {
	Repo     reservationRepo.Repository
	Tables   table.Registry
	Notifier notification.Notifier
	Events   events.Sink
}
