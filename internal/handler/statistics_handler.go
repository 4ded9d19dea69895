package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	log               *slog.Logger
}

func NewStatisticsHandler(statisticsService service.StatisticsService, log *slog.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, log: log}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", middleware.ActiveMenu(MenuDashboard), h.Dashboard)
}

// Dashboard godoc
// @Summary      Dashboard summary
// @Description  Head counts of employees, groups and the service catalog
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=DetailResponse[model.DashboardSummary]}
// @Failure      401  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	summary, err := h.statisticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newDetail(c, summary)))
}
