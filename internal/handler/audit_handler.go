package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/listquery"
	"backoffice/internal/middleware"
	"backoffice/internal/permission"
	"backoffice/internal/service"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	log          *slog.Logger
}

func NewAuditHandler(auditService service.AuditService, log *slog.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit-logs", middleware.ActiveMenu(MenuAuditLogs))
	group.Use(middleware.RequirePermission(permission.ViewLogEntry))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs godoc
// @Summary      Get audit logs
// @Description  Workflow history, newest first. Only superusers hold view_logentry.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action  query     string  false  "Action, e.g. CREATE_EMPLOYEE"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=ListResponse[service.AuditLogResponse]}
// @Failure      403     {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	logs, err := h.auditService.GetAuditLogs(c.Request.Context(), c.Query("action"), p)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}

	q := listquery.Spec{}.Parse(c.Request.URL.Query())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newListResponse(c, logs, q)))
}
