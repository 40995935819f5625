package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"silverarcade/config"
	"silverarcade/handlers"
	"silverarcade/models"
	"silverarcade/utils"
)

type stubReservationManager struct{}

func (stubReservationManager) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	res.ID = "res-1"
	res.Status = models.ReservationPending
	return res, nil
}

func (stubReservationManager) Get(ctx context.Context, kind models.Kind, id string) (*models.Reservation, error) {
	return nil, errors.New("not used")
}

func (stubReservationManager) List(ctx context.Context, kind models.Kind, filter models.ReservationFilter) (*models.ReservationPage, error) {
	return nil, errors.New("not used")
}

func (stubReservationManager) Update(ctx context.Context, kind models.Kind, id string, res *models.Reservation) (*models.Reservation, error) {
	return nil, errors.New("not used")
}

func (stubReservationManager) UpdateStatus(ctx context.Context, kind models.Kind, id string, status models.ReservationStatus, actor models.Actor) (*models.Reservation, error) {
	return nil, errors.New("not used")
}

func (stubReservationManager) Delete(ctx context.Context, kind models.Kind, id string, actor models.Actor) error {
	return errors.New("not used")
}

func newReservationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hb := &handlers.HandlerBundle{
		Reservations: handlers.NewReservationHandler(stubReservationManager{}),
	}
	RegisterReservationRoutes(r, hb, nil)
	return r
}

func postReservation(r *gin.Engine, token string) *httptest.ResponseRecorder {
	body := `{"guestInfo":{"name":"Asha Rao","phoneNumber":"0700000000","email":"asha@example.com"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/reservations/restaurant", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateReservationRequiresAuthenticatedUser(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := newReservationRouter(t)

	if w := postReservation(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status = %d, want 401", w.Code)
	}

	// A plain user token is enough; booking does not need the admin role.
	token, err := utils.GenerateToken(models.Actor{ID: "u1", Name: "Asha Rao", Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := postReservation(r, token); w.Code != http.StatusCreated {
		t.Fatalf("authenticated create: status = %d, body = %s, want 201", w.Code, w.Body.String())
	}
}
