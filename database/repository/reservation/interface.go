package reservationRepo

import (
	"context"
	"errors"

	"silverarcade/models"
)

// Sentinel errors translated by the service layer into the API taxonomy.
var (
	ErrNotFound    = errors.New("reservation not found")
	ErrUnknownKind = errors.New("unknown reservation kind")
)

// Repository is the durable store for reservations. Each kind has its own
// collection; the kind is resolved through a closed map built at
// construction, so an unrecognised kind can never reach storage.
type Repository interface {
	Insert(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, kind models.Kind, id string) (*models.Reservation, error)
	List(ctx context.Context, kind models.Kind, filter models.ReservationFilter) ([]models.Reservation, int64, error)
	UpdateStatus(ctx context.Context, kind models.Kind, id string, status models.ReservationStatus) (*models.Reservation, error)
	Replace(ctx context.Context, res *models.Reservation) (*models.Reservation, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
}
