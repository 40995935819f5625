package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"silverarcade/models"
	"silverarcade/services/table"
	"silverarcade/utils"
)

// TableHandler exposes the table catalog and its state machine.
type TableHandler struct {
	Svc table.Registry
}

func NewTableHandler(svc table.Registry) *TableHandler {
	return &TableHandler{Svc: svc}
}

// Create handles POST /api/tables.
func (h *TableHandler) Create(c *gin.Context) {
	var input models.Table
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}

	created, err := h.Svc.Create(c.Request.Context(), &input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "table": created})
}

// List handles GET /api/tables with optional section, status and capacity
// query filters.
func (h *TableHandler) List(c *gin.Context) {
	filter, err := tableFilterFromQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	tables, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(tables), "tables": tables})
}

// Available handles GET /api/tables/available, the public cached listing.
func (h *TableHandler) Available(c *gin.Context) {
	filter, err := tableFilterFromQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	tables, err := h.Svc.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(tables), "tables": tables})
}

// GetByID handles GET /api/tables/:id.
func (h *TableHandler) GetByID(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "table": t})
}

// Update handles PUT /api/tables/:id, patching metadata fields.
func (h *TableHandler) Update(c *gin.Context) {
	var patch models.TablePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}

	updated, err := h.Svc.UpdateMetadata(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "table": updated})
}

type updateStatusRequest struct {
	Status          models.TableStatus `json:"status" binding:"required"`
	ReservationID   string             `json:"reservationId"`
	ReservationType string             `json:"reservationType"`
	GuestName       string             `json:"guestName"`
	AssignedBy      string             `json:"assignedBy"`
	Notes           string             `json:"notes"`
	AssignedAt      *time.Time         `json:"assignedAt"`
}

// UpdateStatus handles PUT /api/tables/:id/status, the state-machine entry
// point. Reserving without a reservationId is rejected up front.
func (h *TableHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}
	if req.Status == models.TableReserved && req.ReservationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "reservationId is required to reserve a table"})
		return
	}

	tc := models.TransitionContext{
		ReservationID:   req.ReservationID,
		ReservationType: models.Kind(req.ReservationType),
		GuestName:       req.GuestName,
		AssignedBy:      req.AssignedBy,
		Notes:           req.Notes,
		AssignedAt:      req.AssignedAt,
	}
	if tc.AssignedBy == "" {
		tc.AssignedBy = actorName(c)
	}

	updated, err := h.Svc.Transition(c.Request.Context(), c.Param("id"), req.Status, tc)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "table": updated})
}

type transferRequest struct {
	NewTableID string `json:"newTableId" binding:"required"`
	Reason     string `json:"reason"`
}

// Transfer handles PUT /api/tables/:id/transfer.
func (h *TableHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
		return
	}

	from, to, err := h.Svc.Transfer(c.Request.Context(), c.Param("id"), req.NewTableID, req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"fromTable": from, "toTable": to},
	})
}

// Delete handles DELETE /api/tables/:id.
func (h *TableHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Table deleted"})
}

func tableFilterFromQuery(c *gin.Context) (models.TableFilter, error) {
	filter := models.TableFilter{
		Section: models.TableSection(c.Query("section")),
		Status:  models.TableStatus(c.Query("status")),
	}
	if capStr := c.Query("capacity"); capStr != "" {
		capacity, err := strconv.Atoi(capStr)
		if err != nil || capacity < 1 {
			return filter, utils.NewValidationError("capacity must be a positive integer")
		}
		filter.Capacity = &capacity
	}
	return filter, nil
}

// actorName returns the authenticated actor's name, or "system" on public
// routes that carry no identity.
func actorName(c *gin.Context) string {
	if v, ok := c.Get("actor"); ok {
		if actor, ok := v.(models.Actor); ok && actor.Name != "" {
			return actor.Name
		}
	}
	return "system"
}
