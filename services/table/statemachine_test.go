package table

import (
	"context"
	"errors"
	"sync"
	"testing"

	"silverarcade/models"
	"silverarcade/utils"
)

func newTestRegistry(tables ...*models.Table) (*DefaultRegistry, *fakeRepo, *recordingSink) {
	repo := newFakeRepo(tables...)
	sink := &recordingSink{}
	return &DefaultRegistry{Repo: repo, Events: sink}, repo, sink
}

func TestTransitionReserve(t *testing.T) {
	svc, _, sink := newTestRegistry(availableTable("t1", "T1", 4))

	got, err := svc.Transition(context.Background(), "t1", models.TableReserved, models.TransitionContext{
		ReservationID:   "res-1",
		ReservationType: models.KindRestaurant,
		GuestName:       "Asha Rao",
		AssignedBy:      "manager",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if got.Status != models.TableReserved {
		t.Errorf("status = %q, want reserved", got.Status)
	}
	if got.CurrentReservation.ReservationID != "res-1" {
		t.Errorf("currentReservation.reservationId = %q, want res-1", got.CurrentReservation.ReservationID)
	}
	if got.LastAssignedAt == nil {
		t.Error("lastAssignedAt not stamped")
	}

	want := []string{models.EventTableUpdated, models.EventTableStatusChanged}
	if len(sink.events) != len(want) {
		t.Fatalf("published %v, want %v", sink.events, want)
	}
	for i, e := range want {
		if sink.events[i] != e {
			t.Errorf("event[%d] = %q, want %q", i, sink.events[i], e)
		}
	}
}

func TestTransitionReserveConflict(t *testing.T) {
	occupied := availableTable("t1", "T1", 4)
	occupied.Status = models.TableOccupied
	occupied.CurrentReservation = models.CurrentReservation{ReservationID: "res-1"}
	svc, repo, _ := newTestRegistry(occupied)

	_, err := svc.Transition(context.Background(), "t1", models.TableReserved, models.TransitionContext{
		ReservationID: "res-2",
	})

	var conflict *utils.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.Code != utils.CodeTableNotAvailable {
		t.Errorf("code = %q, want %q", conflict.Code, utils.CodeTableNotAvailable)
	}
	if conflict.CurrentStatus != "occupied" {
		t.Errorf("currentStatus = %q, want occupied", conflict.CurrentStatus)
	}

	// The losing write must not touch the document.
	after, _ := repo.GetByID(context.Background(), "t1")
	if after.CurrentReservation.ReservationID != "res-1" {
		t.Errorf("reservation overwritten to %q", after.CurrentReservation.ReservationID)
	}
}

func TestTransitionFreeAppendsOneHistoryEntry(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))
	ctx := context.Background()

	if _, err := svc.Transition(ctx, "t1", models.TableReserved, models.TransitionContext{
		ReservationID: "res-1", GuestName: "Asha Rao", AssignedBy: "manager",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	freed, err := svc.Transition(ctx, "t1", models.TableAvailable, models.TransitionContext{
		Notes: "Guests left", AssignedBy: "manager",
	})
	if err != nil {
		t.Fatalf("free failed: %v", err)
	}
	if freed.Status != models.TableAvailable {
		t.Errorf("status = %q, want available", freed.Status)
	}
	if freed.CurrentReservation.Active() {
		t.Error("currentReservation not cleared")
	}
	if len(freed.AssignmentHistory) != 1 {
		t.Fatalf("history has %d entries, want 1", len(freed.AssignmentHistory))
	}
	entry := freed.AssignmentHistory[0]
	if entry.ReservationID != "res-1" || entry.GuestName != "Asha Rao" {
		t.Errorf("history entry = %+v", entry)
	}
	if entry.FreedAt == nil {
		t.Error("history entry missing freedAt")
	}
	if entry.Notes != "Guests left" {
		t.Errorf("notes = %q, want %q", entry.Notes, "Guests left")
	}
}

func TestTransitionFreeWithoutAssignment(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))

	freed, err := svc.Transition(context.Background(), "t1", models.TableAvailable, models.TransitionContext{})
	if err != nil {
		t.Fatalf("free failed: %v", err)
	}
	if len(freed.AssignmentHistory) != 0 {
		t.Errorf("history has %d entries, want 0", len(freed.AssignmentHistory))
	}
}

func TestTransitionServiceStatuses(t *testing.T) {
	for _, target := range []models.TableStatus{
		models.TableDirty, models.TableMaintenance, models.TableOutOfService,
	} {
		t.Run(string(target), func(t *testing.T) {
			svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))
			got, err := svc.Transition(context.Background(), "t1", target, models.TransitionContext{})
			if err != nil {
				t.Fatalf("transition failed: %v", err)
			}
			if got.Status != target {
				t.Errorf("status = %q, want %q", got.Status, target)
			}
		})
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))

	_, err := svc.Transition(context.Background(), "t1", models.TableStatus("teleported"), models.TransitionContext{})
	var ve *utils.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestConcurrentReserveExactlyOneWins(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transition(ctx, "t1", models.TableReserved, models.TransitionContext{
				ReservationID: "res-1",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var conflict *utils.ConflictError
		if !errors.As(err, &conflict) {
			t.Errorf("loser got %v, want ConflictError", err)
		}
	}
	if wins != 1 {
		t.Errorf("%d reserves succeeded, want exactly 1", wins)
	}
}

func TestAssignBestFit(t *testing.T) {
	reserved := availableTable("t3", "T3", 4)
	reserved.Status = models.TableReserved
	svc, _, _ := newTestRegistry(
		availableTable("t1", "T1", 2),
		availableTable("t2", "T2", 4),
		reserved,
	)

	got, err := svc.AssignBestFit(context.Background(), 3, models.CurrentReservation{
		ReservationID: "res-1", ReservationType: models.KindRestaurant,
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if got == nil {
		t.Fatal("no table assigned")
	}
	if got.TableNumber != "T2" {
		t.Errorf("assigned %q, want T2 (smallest capacity covering 3 seats)", got.TableNumber)
	}
	if got.Status != models.TableReserved {
		t.Errorf("status = %q, want reserved", got.Status)
	}
}

func TestAssignBestFitTieBreaksOnTableNumber(t *testing.T) {
	svc, _, _ := newTestRegistry(
		availableTable("b", "T20", 4),
		availableTable("a", "T10", 4),
	)

	got, err := svc.AssignBestFit(context.Background(), 4, models.CurrentReservation{ReservationID: "res-1"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if got.TableNumber != "T10" {
		t.Errorf("assigned %q, want T10", got.TableNumber)
	}
}

func TestAssignBestFitNoFitIsNotAnError(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 2))

	got, err := svc.AssignBestFit(context.Background(), 8, models.CurrentReservation{ReservationID: "res-1"})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("assigned %q, want none", got.TableNumber)
	}
}

func TestFreeByReservation(t *testing.T) {
	svc, _, _ := newTestRegistry(
		availableTable("t1", "T1", 2),
		availableTable("t2", "T2", 4),
	)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2"} {
		if _, err := svc.Transition(ctx, id, models.TableReserved, models.TransitionContext{
			ReservationID: "res-1",
		}); err != nil {
			t.Fatalf("reserve %s failed: %v", id, err)
		}
	}

	freed, err := svc.FreeByReservation(ctx, "res-1", "Reservation cancelled", "manager")
	if err != nil {
		t.Fatalf("free failed: %v", err)
	}
	if len(freed) != 2 {
		t.Fatalf("freed %d tables, want 2", len(freed))
	}
	for _, ft := range freed {
		if ft.Status != models.TableAvailable {
			t.Errorf("table %s status = %q, want available", ft.TableNumber, ft.Status)
		}
		if len(ft.AssignmentHistory) != 1 || ft.AssignmentHistory[0].Notes != "Reservation cancelled" {
			t.Errorf("table %s history = %+v", ft.TableNumber, ft.AssignmentHistory)
		}
	}
}

func TestTransfer(t *testing.T) {
	svc, _, sink := newTestRegistry(
		availableTable("from", "T1", 2),
		availableTable("to", "T2", 4),
	)
	ctx := context.Background()

	if _, err := svc.Transition(ctx, "from", models.TableReserved, models.TransitionContext{
		ReservationID: "res-1", GuestName: "Asha Rao",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	sink.events = nil

	from, to, err := svc.Transfer(ctx, "from", "to", "Guest requested window seat")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if from.Status != models.TableAvailable || from.CurrentReservation.Active() {
		t.Errorf("source not freed: status=%q reservation=%+v", from.Status, from.CurrentReservation)
	}
	if len(from.AssignmentHistory) != 1 || from.AssignmentHistory[0].Notes != "Guest requested window seat" {
		t.Errorf("source history = %+v", from.AssignmentHistory)
	}
	if to.Status != models.TableReserved || to.CurrentReservation.ReservationID != "res-1" {
		t.Errorf("destination not assigned: status=%q reservation=%+v", to.Status, to.CurrentReservation)
	}
	if len(sink.events) == 0 || sink.events[0] != models.EventTableTransferred {
		t.Errorf("events = %v, want tableTransferred first", sink.events)
	}
}

func TestTransferErrors(t *testing.T) {
	setup := func() (*DefaultRegistry, context.Context) {
		small := availableTable("small", "T3", 1)
		dirty := availableTable("dirty", "T4", 8)
		dirty.Status = models.TableDirty
		svc, _, _ := newTestRegistry(
			availableTable("from", "T1", 2),
			availableTable("idle", "T2", 4),
			small,
			dirty,
		)
		ctx := context.Background()
		if _, err := svc.Transition(ctx, "from", models.TableReserved, models.TransitionContext{
			ReservationID: "res-1",
		}); err != nil {
			t.Fatalf("reserve failed: %v", err)
		}
		return svc, ctx
	}

	t.Run("no active assignment", func(t *testing.T) {
		svc, ctx := setup()
		_, _, err := svc.Transfer(ctx, "idle", "from", "")
		var ve *utils.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("destination not available", func(t *testing.T) {
		svc, ctx := setup()
		_, _, err := svc.Transfer(ctx, "from", "dirty", "")
		var conflict *utils.ConflictError
		if !errors.As(err, &conflict) || conflict.Code != utils.CodeTableNotAvailable {
			t.Errorf("err = %v, want ConflictError(%s)", err, utils.CodeTableNotAvailable)
		}
	})

	t.Run("destination too small", func(t *testing.T) {
		svc, ctx := setup()
		_, _, err := svc.Transfer(ctx, "from", "small", "")
		var conflict *utils.ConflictError
		if !errors.As(err, &conflict) || conflict.Code != utils.CodeInsufficientCap {
			t.Errorf("err = %v, want ConflictError(%s)", err, utils.CodeInsufficientCap)
		}
	})

	t.Run("self transfer", func(t *testing.T) {
		svc, ctx := setup()
		_, _, err := svc.Transfer(ctx, "from", "from", "")
		var ve *utils.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestUpdateMetadataCannotBypassReserveCheck(t *testing.T) {
	svc, repo, _ := newTestRegistry(availableTable("t1", "T1", 4))
	ctx := context.Background()

	if _, err := svc.Transition(ctx, "t1", models.TableReserved, models.TransitionContext{
		ReservationID: "res-1", GuestName: "Asha Rao", AssignedBy: "manager",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	reserved := models.TableReserved
	capacity := 8
	_, err := svc.UpdateMetadata(ctx, "t1", models.TablePatch{Status: &reserved, Capacity: &capacity})

	var conflict *utils.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.Code != utils.CodeTableNotAvailable {
		t.Errorf("code = %q, want %q", conflict.Code, utils.CodeTableNotAvailable)
	}

	// The rejected patch must leave the document untouched.
	after, _ := repo.GetByID(ctx, "t1")
	if after.CurrentReservation.ReservationID != "res-1" {
		t.Errorf("reservation overwritten to %q", after.CurrentReservation.ReservationID)
	}
	if after.Capacity != 4 {
		t.Errorf("capacity = %d, want 4", after.Capacity)
	}
}

func TestDeleteGuardsActiveAssignment(t *testing.T) {
	svc, _, _ := newTestRegistry(availableTable("t1", "T1", 4))
	ctx := context.Background()

	if _, err := svc.Transition(ctx, "t1", models.TableReserved, models.TransitionContext{
		ReservationID: "res-1",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	err := svc.Delete(ctx, "t1")
	var conflict *utils.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != utils.CodeTableHasReservation {
		t.Fatalf("err = %v, want ConflictError(%s)", err, utils.CodeTableHasReservation)
	}

	if _, err := svc.Transition(ctx, "t1", models.TableAvailable, models.TransitionContext{}); err != nil {
		t.Fatalf("free failed: %v", err)
	}
	if err := svc.Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete after free failed: %v", err)
	}
}
