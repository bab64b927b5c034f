package handler

import (
	"net/http"

	"github.com/MikeMikeRx/my-crm-app-sub000/internal/middleware"
	"github.com/MikeMikeRx/my-crm-app-sub000/internal/service"
	"github.com/MikeMikeRx/my-crm-app-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/api/statistics", middleware.RequireAuth())
	{
		stats.GET("/summary", h.GetSummary)
	}
}

// GetSummary returns the dashboard summary for the authenticated user
// @Summary      Dashboard summary
// @Description  Returns quote/invoice counts by effective status plus outstanding, overdue, and collected amounts
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SummaryResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	summary, err := h.statisticsService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
