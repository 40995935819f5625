package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "silverarcade/database/repository/reservation"
	"silverarcade/models"
	"silverarcade/utils"
)

// Create validates and persists a new reservation in pending status and sends
// the guest an acknowledgement email.
func (m *DefaultManager) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	if _, err := models.ParseKind(string(res.Kind)); err != nil {
		return nil, utils.NewValidationError("unknown reservation kind %q", res.Kind)
	}
	if err := validate(res); err != nil {
		return nil, err
	}

	now := time.Now()
	res.ID = uuid.New().String()
	res.Status = models.ReservationPending
	res.CreatedAt = now
	res.UpdatedAt = now

	if err := m.Repo.Insert(ctx, res); err != nil {
		return nil, &utils.StorageError{Op: "create reservation", Err: err}
	}

	if err := m.Notifier.SendAcknowledgement(ctx, res); err != nil {
		utils.GetLogger().Warn("acknowledgement email failed",
			zap.String("reservationId", res.ID), zap.Error(err))
	}
	m.emit(ctx, models.EventReservationCreated, res)
	return res, nil
}

// Get retrieves one reservation of the given kind.
func (m *DefaultManager) Get(ctx context.Context, kind models.Kind, id string) (*models.Reservation, error) {
	res, err := m.Repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, m.translate(id, err, "get reservation")
	}
	return res, nil
}

// List returns one page of reservations matching the filter.
func (m *DefaultManager) List(ctx context.Context, kind models.Kind, filter models.ReservationFilter) (*models.ReservationPage, error) {
	if filter.Status != "" && !models.ValidReservationStatus(kind, filter.Status) {
		return nil, utils.NewValidationError("unknown status %q for %s reservations", filter.Status, kind)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := m.Repo.List(ctx, kind, filter)
	if err != nil {
		return nil, m.translate("", err, "list reservations")
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &models.ReservationPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

// Update replaces the mutable details of a reservation. Status and identity
// fields are preserved; status moves only through UpdateStatus.
func (m *DefaultManager) Update(ctx context.Context, kind models.Kind, id string, res *models.Reservation) (*models.Reservation, error) {
	current, err := m.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	res.ID = current.ID
	res.Kind = current.Kind
	res.Status = current.Status
	res.CreatedAt = current.CreatedAt
	res.UpdatedAt = time.Now()
	if err := validate(res); err != nil {
		return nil, err
	}

	updated, err := m.Repo.Replace(ctx, res)
	if err != nil {
		return nil, m.translate(id, err, "update reservation")
	}
	return updated, nil
}

// Delete removes a reservation and frees any tables still assigned to it.
func (m *DefaultManager) Delete(ctx context.Context, kind models.Kind, id string, actor models.Actor) error {
	if err := m.Repo.Delete(ctx, kind, id); err != nil {
		return m.translate(id, err, "delete reservation")
	}

	if freed, err := m.Tables.FreeByReservation(ctx, id, "Reservation deleted", actor.Name); err != nil {
		utils.GetLogger().Warn("failed to free tables for deleted reservation",
			zap.String("reservationId", id), zap.Error(err))
	} else if len(freed) > 0 {
		utils.GetLogger().Info("freed tables for deleted reservation",
			zap.String("reservationId", id), zap.Int("count", len(freed)))
	}

	m.emit(ctx, models.EventReservationDeleted, models.ReservationDeletedEvent{ID: id, Kind: kind})
	return nil
}

func (m *DefaultManager) translate(id string, err error, op string) error {
	switch {
	case errors.Is(err, reservationRepo.ErrNotFound):
		return &utils.NotFoundError{Resource: "reservation", ID: id}
	case errors.Is(err, reservationRepo.ErrUnknownKind):
		return utils.NewValidationError("unknown reservation kind")
	default:
		return &utils.StorageError{Op: op, Err: err}
	}
}

func (m *DefaultManager) emit(ctx context.Context, event string, payload any) {
	if m.Events == nil {
		return
	}
	if err := m.Events.Publish(ctx, event, payload); err != nil {
		utils.GetLogger().Warn("event publish failed",
			zap.String("event", event), zap.Error(err))
	}
}
