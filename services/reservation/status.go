package reservation

import (
	"context"

	"go.uber.org/zap"

	"silverarcade/models"
	"silverarcade/utils"
)

// UpdateStatus moves a reservation through its lifecycle and drives the table
// state machine for restaurant bookings. Confirming a restaurant reservation
// tries to reserve a best-fit table; finding none is logged and does not fail
// the confirmation. Cancelling frees every table assigned to the reservation.
func (m *DefaultManager) UpdateStatus(ctx context.Context, kind models.Kind, id string, status models.ReservationStatus, actor models.Actor) (*models.Reservation, error) {
	if !models.ValidReservationStatus(kind, status) {
		return nil, utils.NewValidationError("unknown status %q for %s reservations", status, kind)
	}

	current, err := m.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status == models.ReservationCancelled {
		return nil, &utils.ConflictError{
			Code:    utils.CodeReservationFinal,
			Message: "Cancelled reservations cannot change status",
		}
	}
	if status == models.ReservationPending {
		return nil, utils.NewValidationError("reservations cannot return to pending")
	}

	updated, err := m.Repo.UpdateStatus(ctx, kind, id, status)
	if err != nil {
		return nil, m.translate(id, err, "update reservation status")
	}

	switch status {
	case models.ReservationConfirmed:
		if err := m.Notifier.SendConfirmation(ctx, updated); err != nil {
			utils.GetLogger().Warn("confirmation email failed",
				zap.String("reservationId", id), zap.Error(err))
		}
		if kind == models.KindRestaurant {
			m.assignTable(ctx, updated, actor)
		}
	case models.ReservationCancelled, models.ReservationNoShow:
		notes := "Reservation cancelled"
		if status == models.ReservationNoShow {
			notes = "Guest did not arrive"
		}
		if _, err := m.Tables.FreeByReservation(ctx, id, notes, actor.Name); err != nil {
			utils.GetLogger().Warn("failed to free tables for cancelled reservation",
				zap.String("reservationId", id), zap.Error(err))
		}
	}

	m.emit(ctx, models.EventReservationStatusChanged, models.ReservationStatusChangedEvent{
		ID: id, Status: status,
	})
	return updated, nil
}

// assignTable reserves the closest-fit table for a confirmed restaurant
// booking. No table fitting the party is a warning, not an error; the
// reservation stays confirmed either way.
func (m *DefaultManager) assignTable(ctx context.Context, res *models.Reservation, actor models.Actor) {
	assigned, err := m.Tables.AssignBestFit(ctx, res.NoOfDiners, models.CurrentReservation{
		ReservationID:   res.ID,
		ReservationType: models.KindRestaurant,
		GuestName:       res.GuestInfo.Name,
		AssignedBy:      actor.Name,
	})
	if err != nil {
		utils.GetLogger().Warn("table assignment failed",
			zap.String("reservationId", res.ID), zap.Error(err))
		return
	}
	if assigned == nil {
		utils.GetLogger().Warn("no table available for confirmed reservation",
			zap.String("reservationId", res.ID),
			zap.Int("diners", res.NoOfDiners))
		return
	}
	utils.GetLogger().Info("table assigned to reservation",
		zap.String("reservationId", res.ID),
		zap.String("tableNumber", assigned.TableNumber))
}
