package table

import (
	"context"
	"sort"
	"sync"
	"time"

	tableRepo "silverarcade/database/repository/table"
	"silverarcade/models"
)

// fakeRepo is an in-memory Repository with the same conditional-write
// semantics as the Mongo implementation. The mutex makes each operation
// atomic, so concurrent reserve races behave like the real store.
type fakeRepo struct {
	mu     sync.Mutex
	tables map[string]*models.Table
}

func newFakeRepo(tables ...*models.Table) *fakeRepo {
	r := &fakeRepo{tables: make(map[string]*models.Table)}
	for _, t := range tables {
		cp := *t
		r.tables[t.ID] = &cp
	}
	return r
}

func (r *fakeRepo) snapshot(id string) *models.Table {
	cp := *r.tables[id]
	cp.AssignmentHistory = append([]models.AssignmentRecord(nil), r.tables[id].AssignmentHistory...)
	return &cp
}

func (r *fakeRepo) Insert(ctx context.Context, t *models.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tables {
		if existing.TableNumber == t.TableNumber {
			return tableRepo.ErrDuplicateTableNumber
		}
	}
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return nil, tableRepo.ErrNotFound
	}
	return r.snapshot(id), nil
}

func (r *fakeRepo) List(ctx context.Context, filter models.TableFilter) ([]models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Table
	for _, t := range r.tables {
		if filter.Section != "" && t.Section != filter.Section {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Capacity != nil && t.Capacity < *filter.Capacity {
			continue
		}
		out = append(out, *r.snapshot(t.ID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

func (r *fakeRepo) UpdateMetadata(ctx context.Context, id string, patch models.TablePatch) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, tableRepo.ErrNotFound
	}
	if patch.Status != nil && *patch.Status == models.TableReserved &&
		(t.Status == models.TableReserved || t.Status == models.TableOccupied) {
		return nil, tableRepo.ErrNotAvailable
	}
	if patch.TableNumber != nil {
		t.TableNumber = *patch.TableNumber
	}
	if patch.Capacity != nil {
		t.Capacity = *patch.Capacity
	}
	if patch.Section != nil {
		t.Section = *patch.Section
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}
	t.UpdatedAt = time.Now()
	return r.snapshot(id), nil
}

func (r *fakeRepo) Reserve(ctx context.Context, id string, res models.CurrentReservation, now time.Time) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, tableRepo.ErrNotFound
	}
	if t.Status == models.TableReserved || t.Status == models.TableOccupied {
		return nil, tableRepo.ErrNotAvailable
	}
	t.Status = models.TableReserved
	t.CurrentReservation = res
	t.LastAssignedAt = &now
	t.UpdatedAt = now
	return r.snapshot(id), nil
}

func (r *fakeRepo) MarkOccupied(ctx context.Context, id string, now time.Time) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, tableRepo.ErrNotFound
	}
	t.Status = models.TableOccupied
	t.LastOccupiedAt = &now
	t.UpdatedAt = now
	return r.snapshot(id), nil
}

func (r *fakeRepo) Free(ctx context.Context, id string, assignedAt *time.Time, notes, freedBy string, now time.Time) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, tableRepo.ErrNotFound
	}
	if t.CurrentReservation.Active() {
		start := now
		if assignedAt != nil {
			start = *assignedAt
		} else if t.LastAssignedAt != nil {
			start = *t.LastAssignedAt
		}
		by := t.CurrentReservation.AssignedBy
		if by == "" {
			by = freedBy
		}
		freed := now
		t.AssignmentHistory = append(t.AssignmentHistory, models.AssignmentRecord{
			ReservationID:   t.CurrentReservation.ReservationID,
			ReservationType: t.CurrentReservation.ReservationType,
			GuestName:       t.CurrentReservation.GuestName,
			AssignedAt:      start,
			FreedAt:         &freed,
			AssignedBy:      by,
			Notes:           notes,
		})
	}
	t.Status = models.TableAvailable
	t.CurrentReservation = models.CurrentReservation{}
	t.LastFreedAt = &now
	t.UpdatedAt = now
	return r.snapshot(id), nil
}

func (r *fakeRepo) SetServiceStatus(ctx context.Context, id string, status models.TableStatus) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, tableRepo.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return r.snapshot(id), nil
}

func (r *fakeRepo) FindBestFit(ctx context.Context, seats int) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Table
	for _, t := range r.tables {
		if t.Status != models.TableAvailable || !t.IsActive || t.Capacity < seats {
			continue
		}
		if best == nil ||
			t.Capacity < best.Capacity ||
			(t.Capacity == best.Capacity && t.TableNumber < best.TableNumber) {
			best = t
		}
	}
	if best == nil {
		return nil, tableRepo.ErrNotFound
	}
	return r.snapshot(best.ID), nil
}

func (r *fakeRepo) FindByReservation(ctx context.Context, reservationID string) ([]models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Table
	for _, t := range r.tables {
		if t.CurrentReservation.ReservationID == reservationID {
			out = append(out, *r.snapshot(t.ID))
		}
	}
	return out, nil
}

func (r *fakeRepo) Transfer(ctx context.Context, fromID, toID, reason string, now time.Time) (*models.Table, *models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from, ok := r.tables[fromID]
	if !ok {
		return nil, nil, tableRepo.ErrNotFound
	}
	to, ok := r.tables[toID]
	if !ok {
		return nil, nil, tableRepo.ErrNotFound
	}
	if !from.CurrentReservation.Active() {
		return nil, nil, tableRepo.ErrNoActiveAssignment
	}
	if to.Status != models.TableAvailable {
		return nil, nil, tableRepo.ErrNotAvailable
	}
	if to.Capacity < from.Capacity {
		return nil, nil, tableRepo.ErrCapacityTooSmall
	}

	res := from.CurrentReservation
	start := now
	if from.LastAssignedAt != nil {
		start = *from.LastAssignedAt
	}
	freed := now
	from.AssignmentHistory = append(from.AssignmentHistory, models.AssignmentRecord{
		ReservationID:   res.ReservationID,
		ReservationType: res.ReservationType,
		GuestName:       res.GuestName,
		AssignedAt:      start,
		FreedAt:         &freed,
		AssignedBy:      res.AssignedBy,
		Notes:           reason,
	})
	from.Status = models.TableAvailable
	from.CurrentReservation = models.CurrentReservation{}
	from.LastFreedAt = &now
	from.UpdatedAt = now

	to.Status = models.TableReserved
	to.CurrentReservation = res
	to.LastAssignedAt = &now
	to.UpdatedAt = now

	return r.snapshot(fromID), r.snapshot(toID), nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return tableRepo.ErrNotFound
	}
	if t.HasActiveAssignment() {
		return tableRepo.ErrHasActiveAssignment
	}
	delete(r.tables, id)
	return nil
}

var _ tableRepo.Repository = (*fakeRepo)(nil)

// recordingSink captures published events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Publish(ctx context.Context, event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func availableTable(id, number string, capacity int) *models.Table {
	return &models.Table{
		ID:          id,
		TableNumber: number,
		Section:     models.SectionRestaurant,
		Capacity:    capacity,
		Status:      models.TableAvailable,
		Priority:    5,
		Floor:       1,
		IsActive:    true,
	}
}
