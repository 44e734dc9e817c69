package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/service"
)

type DashboardHandler struct {
	stats *service.StatsService
}

func NewDashboardHandler(stats *service.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Get returns contract counts, revenue and the latest contracts
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}

	dashboard, err := h.stats.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
