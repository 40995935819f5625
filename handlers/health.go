package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silverarcade/utils"
)

// HealthHandler reports liveness and dependency health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Check handles GET /health. Degraded dependencies report 503 so load
// balancers can rotate the instance out.
func (h *HealthHandler) Check(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"success":   code == http.StatusOK,
		"mongo":     status.Mongo,
		"redis":     status.Redis,
		"checkedAt": status.CheckedAt,
	})
}
