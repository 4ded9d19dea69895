package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	perms service.PermissionService
	log   *slog.Logger
}

func NewPermissionHandler(perms service.PermissionService, log *slog.Logger) *PermissionHandler {
	return &PermissionHandler{perms: perms, log: log}
}

func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/permissions/catalog", h.Catalog)
}

// Catalog godoc
// @Summary      Assignable permission catalog
// @Description  Permissions grouped by namespace and model, with nothing selected
// @Tags         permissions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PermissionAssignment}
// @Failure      401  {object}  response.Response
// @Router       /api/permissions/catalog [get]
func (h *PermissionHandler) Catalog(c *gin.Context) {
	assignment, err := h.perms.Assignment(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}
