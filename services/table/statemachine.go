package table

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	tableRepo "silverarcade/database/repository/table"
	"silverarcade/models"
	"silverarcade/utils"
)

// Transition executes one state-machine move. The reserved target is an
// atomic conditional write in the repository: when the table is already
// reserved or occupied the caller gets ConflictError(TABLE_NOT_AVAILABLE)
// and the document is untouched.
func (s *DefaultRegistry) Transition(ctx context.Context, id string, target models.TableStatus, tc models.TransitionContext) (*models.Table, error) {
	now := time.Now()

	var (
		updated *models.Table
		err     error
	)
	switch target {
	case models.TableReserved:
		res := models.CurrentReservation{
			ReservationID:   tc.ReservationID,
			ReservationType: tc.ReservationType,
			GuestName:       tc.GuestName,
			AssignedBy:      tc.AssignedBy,
		}
		if res.ReservationType == "" {
			res.ReservationType = models.KindRestaurant
		}
		updated, err = s.Repo.Reserve(ctx, id, res, now)
	case models.TableOccupied:
		updated, err = s.Repo.MarkOccupied(ctx, id, now)
	case models.TableAvailable:
		updated, err = s.Repo.Free(ctx, id, tc.AssignedAt, tc.Notes, tc.AssignedBy, now)
	case models.TableDirty, models.TableMaintenance, models.TableOutOfService:
		updated, err = s.Repo.SetServiceStatus(ctx, id, target)
	default:
		return nil, utils.NewValidationError("invalid status transition to %q", target)
	}
	if err != nil {
		return nil, s.translate(ctx, id, err, "transition table")
	}

	s.emit(ctx, models.EventTableUpdated, updated)
	s.emit(ctx, models.EventTableStatusChanged, models.TableStatusChangedEvent{
		TableID: updated.ID, TableNumber: updated.TableNumber, Status: updated.Status,
	})
	return updated, nil
}

// AssignBestFit reserves the closest-fit available table: smallest capacity
// covering the seat count, ties broken by lowest table number. Returning
// (nil, nil) means no table fits; the caller proceeds without an assignment.
// Losing the reservation race to a concurrent assignment is treated the same
// way rather than surfacing a conflict for a table the caller never named.
func (s *DefaultRegistry) AssignBestFit(ctx context.Context, seats int, res models.CurrentReservation) (*models.Table, error) {
	if seats < 1 {
		return nil, utils.NewValidationError("seat count must be at least 1")
	}

	candidate, err := s.Repo.FindBestFit(ctx, seats)
	if err != nil {
		if errors.Is(err, tableRepo.ErrNotFound) {
			return nil, nil
		}
		return nil, &utils.StorageError{Op: "find best-fit table", Err: err}
	}

	assigned, err := s.Transition(ctx, candidate.ID, models.TableReserved, models.TransitionContext{
		ReservationID:   res.ReservationID,
		ReservationType: res.ReservationType,
		GuestName:       res.GuestName,
		AssignedBy:      res.AssignedBy,
	})
	if err != nil {
		var conflict *utils.ConflictError
		if errors.As(err, &conflict) {
			utils.GetLogger().Warn("best-fit table taken concurrently, proceeding unassigned",
				zap.String("tableId", candidate.ID),
				zap.String("reservationId", res.ReservationID))
			return nil, nil
		}
		return nil, err
	}
	return assigned, nil
}

// FreeByReservation returns every table assigned to the reservation to
// available. Each freed table gets one history entry carrying the notes.
func (s *DefaultRegistry) FreeByReservation(ctx context.Context, reservationID, notes, actor string) ([]models.Table, error) {
	assigned, err := s.Repo.FindByReservation(ctx, reservationID)
	if err != nil {
		return nil, &utils.StorageError{Op: "find tables by reservation", Err: err}
	}

	freed := make([]models.Table, 0, len(assigned))
	for _, t := range assigned {
		updated, err := s.Transition(ctx, t.ID, models.TableAvailable, models.TransitionContext{
			Notes:      notes,
			AssignedBy: actor,
		})
		if err != nil {
			return freed, err
		}
		freed = append(freed, *updated)
	}
	return freed, nil
}

// Transfer atomically moves the active assignment to an available table of
// equal or larger capacity.
func (s *DefaultRegistry) Transfer(ctx context.Context, fromID, toID, reason string) (*models.Table, *models.Table, error) {
	if toID == "" {
		return nil, nil, utils.NewValidationError("newTableId is required")
	}
	if fromID == toID {
		return nil, nil, utils.NewValidationError("cannot transfer a table to itself")
	}

	from, to, err := s.Repo.Transfer(ctx, fromID, toID, reason, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, tableRepo.ErrNotFound):
			return nil, nil, &utils.NotFoundError{Resource: "table"}
		case errors.Is(err, tableRepo.ErrNoActiveAssignment):
			return nil, nil, utils.NewValidationError("source table has no active assignment")
		case errors.Is(err, tableRepo.ErrNotAvailable):
			conflict := &utils.ConflictError{
				Code:    utils.CodeTableNotAvailable,
				Message: "Destination table is not available for transfer",
			}
			if t, getErr := s.Repo.GetByID(ctx, toID); getErr == nil {
				conflict.TableNumber = t.TableNumber
				conflict.CurrentStatus = string(t.Status)
			}
			return nil, nil, conflict
		case errors.Is(err, tableRepo.ErrCapacityTooSmall):
			return nil, nil, &utils.ConflictError{
				Code:    utils.CodeInsufficientCap,
				Message: "Destination table capacity is less than the source table",
			}
		default:
			return nil, nil, &utils.StorageError{Op: "transfer table", Err: err}
		}
	}

	s.emit(ctx, models.EventTableTransferred, models.TableTransferredEvent{
		FromTableID: from.ID, ToTableID: to.ID, Reason: reason,
	})
	for _, t := range []*models.Table{from, to} {
		s.emit(ctx, models.EventTableStatusChanged, models.TableStatusChangedEvent{
			TableID: t.ID, TableNumber: t.TableNumber, Status: t.Status,
		})
	}
	return from, to, nil
}
