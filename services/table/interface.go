package table

import (
	"context"

	tableRepo "silverarcade/database/repository/table"
	"silverarcade/models"
	"silverarcade/services/events"
)

// Registry owns the catalog of physical tables and their assignment state
// machine. Only Transition (and the operations built on it) may move a table
// between lifecycle states; metadata edits cannot.
type Registry interface {
	Create(ctx context.Context, table *models.Table) (*models.Table, error)
	Get(ctx context.Context, id string) (*models.Table, error)
	List(ctx context.Context, filter models.TableFilter) ([]models.Table, error)
	ListAvailable(ctx context.Context, filter models.TableFilter) ([]models.Table, error)
	UpdateMetadata(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error)
	Transition(ctx context.Context, id string, target models.TableStatus, tc models.TransitionContext) (*models.Table, error)
	Transfer(ctx context.Context, fromID, toID, reason string) (*models.Table, *models.Table, error)
	Delete(ctx context.Context, id string) error

	// AssignBestFit reserves the closest-fit available table for the given
	// seat count. A nil table with nil error means nothing fits; the caller
	// proceeds without an assignment.
	AssignBestFit(ctx context.Context, seats int, res models.CurrentReservation) (*models.Table, error)

	// FreeByReservation returns every table assigned to the reservation to
	// available, appending a history entry with the given notes.
	FreeByReservation(ctx context.Context, reservationID, notes, actor string) ([]models.Table, error)
}

// DefaultRegistry is the production Registry over the Mongo repository.
type DefaultRegistry struct {
	Repo   tableRepo.Repository
	Events events.Sink
}
