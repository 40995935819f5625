package table

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	tableRepo "silverarcade/database/repository/table"
	"silverarcade/models"
	"silverarcade/utils"
)

// Create validates and persists a new table. Tables always start available.
func (s *DefaultRegistry) Create(ctx context.Context, table *models.Table) (*models.Table, error) {
	if table.TableNumber == "" {
		return nil, utils.NewValidationError("tableNumber is required")
	}
	if table.Capacity < 1 || table.Capacity > 50 {
		return nil, utils.NewValidationError("capacity must be between 1 and 50")
	}
	if table.Section == "" {
		table.Section = models.SectionRestaurant
	}
	if !models.ValidTableSection(table.Section) {
		return nil, utils.NewValidationError("unknown section %q", table.Section)
	}
	for _, f := range table.Features {
		if !models.ValidTableFeature(f) {
			return nil, utils.NewValidationError("unknown feature %q", f)
		}
	}
	if table.Priority == 0 {
		table.Priority = 5
	}
	if table.Priority < 1 || table.Priority > 10 {
		return nil, utils.NewValidationError("priority must be between 1 and 10")
	}
	if table.Floor == 0 {
		table.Floor = 1
	}

	table.ID = uuid.New().String()
	table.Status = models.TableAvailable
	table.IsActive = true
	table.CurrentReservation = models.CurrentReservation{}
	table.AssignmentHistory = []models.AssignmentRecord{}

	if err := s.Repo.Insert(ctx, table); err != nil {
		if errors.Is(err, tableRepo.ErrDuplicateTableNumber) {
			return nil, &utils.ConflictError{
				Code:        utils.CodeDuplicateTable,
				Message:     "Table number already exists",
				TableNumber: table.TableNumber,
			}
		}
		return nil, &utils.StorageError{Op: "create table", Err: err}
	}

	s.emit(ctx, models.EventTableCreated, table)
	return table, nil
}

// Get retrieves a single table.
func (s *DefaultRegistry) Get(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tableRepo.ErrNotFound) {
			return nil, &utils.NotFoundError{Resource: "table", ID: id}
		}
		return nil, &utils.StorageError{Op: "get table", Err: err}
	}
	return table, nil
}

// List returns tables matching the filter.
func (s *DefaultRegistry) List(ctx context.Context, filter models.TableFilter) ([]models.Table, error) {
	if filter.Section != "" && !models.ValidTableSection(filter.Section) {
		return nil, utils.NewValidationError("unknown section %q", filter.Section)
	}
	if filter.Status != "" && !models.ValidTableStatus(filter.Status) {
		return nil, utils.NewValidationError("unknown status %q", filter.Status)
	}
	tables, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, &utils.StorageError{Op: "list tables", Err: err}
	}
	return tables, nil
}

// ListAvailable returns currently available tables, optionally narrowed by
// section or capacity.
func (s *DefaultRegistry) ListAvailable(ctx context.Context, filter models.TableFilter) ([]models.Table, error) {
	filter.Status = models.TableAvailable
	return s.List(ctx, filter)
}

// UpdateMetadata patches non-lifecycle fields. A reserved status in the patch
// runs through the same conflict check as the state machine.
func (s *DefaultRegistry) UpdateMetadata(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error) {
	if patch.TableNumber != nil && *patch.TableNumber == "" {
		return nil, utils.NewValidationError("tableNumber cannot be empty")
	}
	if patch.Capacity != nil && (*patch.Capacity < 1 || *patch.Capacity > 50) {
		return nil, utils.NewValidationError("capacity must be between 1 and 50")
	}
	if patch.Section != nil && !models.ValidTableSection(*patch.Section) {
		return nil, utils.NewValidationError("unknown section %q", *patch.Section)
	}
	if patch.Status != nil && !models.ValidTableStatus(*patch.Status) {
		return nil, utils.NewValidationError("unknown status %q", *patch.Status)
	}
	if patch.Priority != nil && (*patch.Priority < 1 || *patch.Priority > 10) {
		return nil, utils.NewValidationError("priority must be between 1 and 10")
	}
	if patch.Features != nil {
		for _, f := range *patch.Features {
			if !models.ValidTableFeature(f) {
				return nil, utils.NewValidationError("unknown feature %q", f)
			}
		}
	}

	updated, err := s.Repo.UpdateMetadata(ctx, id, patch)
	if err != nil {
		return nil, s.translate(ctx, id, err, "update table")
	}

	s.emit(ctx, models.EventTableUpdated, updated)
	if patch.Status != nil {
		s.emit(ctx, models.EventTableStatusChanged, models.TableStatusChangedEvent{
			TableID: updated.ID, TableNumber: updated.TableNumber, Status: updated.Status,
		})
	}
	return updated, nil
}

// Delete removes a table that has no active assignment.
func (s *DefaultRegistry) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, tableRepo.ErrNotFound) {
			return &utils.NotFoundError{Resource: "table", ID: id}
		}
		if errors.Is(err, tableRepo.ErrHasActiveAssignment) {
			conflict := &utils.ConflictError{
				Code:    utils.CodeTableHasReservation,
				Message: "Cannot delete a table with an active reservation",
			}
			if t, getErr := s.Repo.GetByID(ctx, id); getErr == nil {
				conflict.TableNumber = t.TableNumber
				conflict.CurrentStatus = string(t.Status)
			}
			return conflict
		}
		return &utils.StorageError{Op: "delete table", Err: err}
	}

	s.emit(ctx, models.EventTableDeleted, models.TableDeletedEvent{TableID: id})
	return nil
}

// translate maps repository sentinels onto the API taxonomy, enriching
// conflicts with the table's number and live status for the operator.
func (s *DefaultRegistry) translate(ctx context.Context, id string, err error, op string) error {
	switch {
	case errors.Is(err, tableRepo.ErrNotFound):
		return &utils.NotFoundError{Resource: "table", ID: id}
	case errors.Is(err, tableRepo.ErrDuplicateTableNumber):
		return &utils.ConflictError{Code: utils.CodeDuplicateTable, Message: "Table number already exists"}
	case errors.Is(err, tableRepo.ErrNotAvailable):
		conflict := &utils.ConflictError{
			Code:    utils.CodeTableNotAvailable,
			Message: "Table is already reserved or occupied",
		}
		if t, getErr := s.Repo.GetByID(ctx, id); getErr == nil {
			conflict.TableNumber = t.TableNumber
			conflict.CurrentStatus = string(t.Status)
			conflict.Message = "Table " + t.TableNumber + " is already " + string(t.Status)
		}
		return conflict
	default:
		return &utils.StorageError{Op: op, Err: err}
	}
}

// emit publishes a best-effort event; failures are logged and swallowed.
func (s *DefaultRegistry) emit(ctx context.Context, event string, payload any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event, payload); err != nil {
		utils.GetLogger().Warn("event publish failed",
			zap.String("event", event), zap.Error(err))
	}
}
