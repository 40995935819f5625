package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"silverarcade/models"
	"silverarcade/services/table"
	"silverarcade/utils"
)

// stubRegistry returns canned responses per method.
type stubRegistry struct {
	table *models.Table
	err   error
}

func (s *stubRegistry) Create(ctx context.Context, t *models.Table) (*models.Table, error) {
	return s.table, s.err
}
func (s *stubRegistry) Get(ctx context.Context, id string) (*models.Table, error) {
	return s.table, s.err
}
func (s *stubRegistry) List(ctx context.Context, f models.TableFilter) ([]models.Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Table{*s.table}, nil
}
func (s *stubRegistry) ListAvailable(ctx context.Context, f models.TableFilter) ([]models.Table, error) {
	return s.List(ctx, f)
}
func (s *stubRegistry) UpdateMetadata(ctx context.Context, id string, p models.TablePatch) (*models.Table, error) {
	return s.table, s.err
}
func (s *stubRegistry) Transition(ctx context.Context, id string, t models.TableStatus, tc models.TransitionContext) (*models.Table, error) {
	return s.table, s.err
}
func (s *stubRegistry) Transfer(ctx context.Context, fromID, toID, reason string) (*models.Table, *models.Table, error) {
	return s.table, s.table, s.err
}
func (s *stubRegistry) Delete(ctx context.Context, id string) error { return s.err }
func (s *stubRegistry) AssignBestFit(ctx context.Context, seats int, r models.CurrentReservation) (*models.Table, error) {
	return s.table, s.err
}
func (s *stubRegistry) FreeByReservation(ctx context.Context, id, notes, actor string) ([]models.Table, error) {
	return nil, s.err
}

var _ table.Registry = (*stubRegistry)(nil)

func newTableRouter(svc table.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTableHandler(svc)
	r := gin.New()
	r.PUT("/api/tables/:id/status", h.UpdateStatus)
	r.PUT("/api/tables/:id/transfer", h.Transfer)
	r.POST("/api/tables", h.Create)
	r.GET("/api/tables/available", h.Available)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
		}
	}
	return w, body
}

func TestUpdateStatusConflictBody(t *testing.T) {
	r := newTableRouter(&stubRegistry{err: &utils.ConflictError{
		Code:          utils.CodeTableNotAvailable,
		Message:       "Table T5 is already reserved",
		TableNumber:   "T5",
		CurrentStatus: "reserved",
	}})

	w, body := doJSON(t, r, http.MethodPut, "/api/tables/t5/status", gin.H{
		"status":        "reserved",
		"reservationId": "res-9",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body["errorCode"] != utils.CodeTableNotAvailable {
		t.Errorf("errorCode = %v, want %s", body["errorCode"], utils.CodeTableNotAvailable)
	}
	if body["tableNumber"] != "T5" || body["currentStatus"] != "reserved" {
		t.Errorf("conflict context missing: %v", body)
	}
}

func TestUpdateStatusRequiresReservationID(t *testing.T) {
	r := newTableRouter(&stubRegistry{})

	w, _ := doJSON(t, r, http.MethodPut, "/api/tables/t1/status", gin.H{"status": "reserved"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateReturns201(t *testing.T) {
	created := &models.Table{ID: "t1", TableNumber: "T1", Capacity: 4, Status: models.TableAvailable}
	r := newTableRouter(&stubRegistry{table: created})

	w, body := doJSON(t, r, http.MethodPost, "/api/tables", gin.H{
		"tableNumber": "T1", "capacity": 4,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if success, _ := body["success"].(bool); !success {
		t.Error("success = false, want true")
	}
}

func TestTransferResponseShape(t *testing.T) {
	tbl := &models.Table{ID: "t2", TableNumber: "T2", Status: models.TableReserved}
	r := newTableRouter(&stubRegistry{table: tbl})

	w, body := doJSON(t, r, http.MethodPut, "/api/tables/t1/transfer", gin.H{
		"newTableId": "t2", "reason": "window seat",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data object: %v", body)
	}
	if _, ok := data["fromTable"]; !ok {
		t.Error("missing fromTable")
	}
	if _, ok := data["toTable"]; !ok {
		t.Error("missing toTable")
	}
}

func TestAvailableListing(t *testing.T) {
	tbl := &models.Table{ID: "t1", TableNumber: "T1", Status: models.TableAvailable, Capacity: 4}
	r := newTableRouter(&stubRegistry{table: tbl})

	w, body := doJSON(t, r, http.MethodGet, "/api/tables/available?capacity=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if count, _ := body["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestAvailableRejectsBadCapacity(t *testing.T) {
	r := newTableRouter(&stubRegistry{})

	w, _ := doJSON(t, r, http.MethodGet, "/api/tables/available?capacity=lots", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
