package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"silverarcade/models"
	"silverarcade/services/reservation"
	"silverarcade/utils"
)

// ReservationHandler exposes the reservation lifecycle for all kinds. The
// kind is a path segment, validated before anything touches storage.
type ReservationHandler struct {
	Svc reservation.Manager
}

func NewReservationHandler(svc reservation.Manager) *ReservationHandler {
	return &ReservationHandler{Svc: svc}
}

// Create handles POST /api/reservations/:kind.
func (h *ReservationHandler) Create(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var input models.Reservation
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}
	input.Kind = kind

	created, err := h.Svc.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "reservation": created})
}

// List handles GET /api/reservations/:kind with filtering and pagination.
func (h *ReservationHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	filter, err := reservationFilterFromQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	page, err := h.Svc.List(c.Request.Context(), kind, filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// GetByID handles GET /api/reservations/:kind/:id.
func (h *ReservationHandler) GetByID(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	res, err := h.Svc.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reservation": res})
}

// Update handles PUT /api/reservations/:kind/:id.
func (h *ReservationHandler) Update(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var input models.Reservation
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}
	input.Kind = kind

	updated, err := h.Svc.Update(c.Request.Context(), kind, c.Param("id"), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reservation": updated})
}

type statusRequest struct {
	Status models.ReservationStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/reservations/:kind/:id/status.
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}

	updated, err := h.Svc.UpdateStatus(c.Request.Context(), kind, c.Param("id"), req.Status, actor(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reservation": updated})
}

// Delete handles DELETE /api/reservations/:kind/:id.
func (h *ReservationHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), kind, c.Param("id"), actor(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reservation deleted"})
}

func (h *ReservationHandler) kind(c *gin.Context) (models.Kind, bool) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return "", false
	}
	return kind, true
}

func reservationFilterFromQuery(c *gin.Context) (models.ReservationFilter, error) {
	filter := models.ReservationFilter{
		Status: models.ReservationStatus(c.Query("status")),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
	}

	for query, dest := range map[string]**time.Time{
		"startDate": &filter.StartDate,
		"endDate":   &filter.EndDate,
	} {
		if s := c.Query(query); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				t, err = time.Parse("2006-01-02", s)
			}
			if err != nil {
				return filter, utils.NewValidationError("%s must be an RFC3339 or YYYY-MM-DD date", query)
			}
			*dest = &t
		}
	}

	if s := c.Query("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return filter, utils.NewValidationError("page must be a positive integer")
		}
		filter.Page = page
	}
	if s := c.Query("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			return filter, utils.NewValidationError("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// actor returns the authenticated actor, or a system identity on routes
// without one.
func actor(c *gin.Context) models.Actor {
	if v, ok := c.Get("actor"); ok {
		if a, ok := v.(models.Actor); ok {
			return a
		}
	}
	return models.Actor{Name: "system", Role: "system"}
}
