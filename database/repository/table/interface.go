package tableRepo

import (
	"context"
	"errors"
	"time"

	"silverarcade/models"
)

// Sentinel errors translated by the service layer into the API taxonomy.
var (
	ErrNotFound             = errors.New("table not found")
	ErrDuplicateTableNumber = errors.New("table number already exists")
	ErrNotAvailable         = errors.New("table is already reserved or occupied")
	ErrHasActiveAssignment  = errors.New("table has an active reservation")
	ErrNoActiveAssignment   = errors.New("table has no active reservation")
	ErrCapacityTooSmall     = errors.New("destination table capacity is too small")
)

// Repository is the durable store for tables. Reserve and Transfer are the
// two operations with correctness-critical atomicity requirements: Reserve is
// a single conditional write, Transfer a multi-document transaction.
type Repository interface {
	Insert(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, id string) (*models.Table, error)
	List(ctx context.Context, filter models.TableFilter) ([]models.Table, error)

	// UpdateMetadata patches non-lifecycle fields. A patch carrying
	// status=reserved is applied conditionally and fails with ErrNotAvailable
	// when the table is already reserved or occupied.
	UpdateMetadata(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error)

	// Reserve atomically moves an available table to reserved. The write is
	// conditional on status not being reserved or occupied; exactly one of two
	// concurrent calls can succeed.
	Reserve(ctx context.Context, id string, res models.CurrentReservation, now time.Time) (*models.Table, error)

	// MarkOccupied stamps lastOccupiedAt and sets status to occupied.
	MarkOccupied(ctx context.Context, id string, now time.Time) (*models.Table, error)

	// Free returns the table to available, clears the active reservation and,
	// if one existed, appends a single assignment-history entry derived from
	// it. assignedAt overrides the entry's start time when supplied.
	Free(ctx context.Context, id string, assignedAt *time.Time, notes, freedBy string, now time.Time) (*models.Table, error)

	// SetServiceStatus applies dirty, maintenance or out_of_service without
	// touching the assignment or its history.
	SetServiceStatus(ctx context.Context, id string, status models.TableStatus) (*models.Table, error)

	// FindBestFit returns the available, active table with the smallest
	// capacity >= seats, ties broken by lowest table number. ErrNotFound when
	// nothing fits.
	FindBestFit(ctx context.Context, seats int) (*models.Table, error)

	// FindByReservation returns every table whose active assignment points at
	// the given reservation.
	FindByReservation(ctx context.Context, reservationID string) ([]models.Table, error)

	// Transfer atomically moves the active assignment from one table to an
	// available destination of equal or larger capacity. Nothing is committed
	// on failure.
	Transfer(ctx context.Context, fromID, toID, reason string, now time.Time) (*models.Table, *models.Table, error)

	// Delete removes a table unless it has an active assignment.
	Delete(ctx context.Context, id string) error
}
