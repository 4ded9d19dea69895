package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/apperr"
	"backoffice/internal/middleware"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups   service.GroupService
	perms    service.PermissionService
	log      *slog.Logger
	pageSize int
}

func NewGroupHandler(groups service.GroupService, perms service.PermissionService, log *slog.Logger, pageSize int) *GroupHandler {
	return &GroupHandler{groups: groups, perms: perms, log: log, pageSize: pageSize}
}

func (h *GroupHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/groups", middleware.ActiveMenu(MenuGroups))
	{
		group.GET("", middleware.RequirePermission(permission.ViewGroup), h.List)
		group.POST("", middleware.RequirePermission(permission.AddGroup), h.Create)
		// The employee form offers every group.
		group.GET("/options", middleware.RequireAnyPermission(permission.ViewGroup, permission.AddEmployee), h.Options)
		group.GET("/:id", middleware.RequirePermission(permission.ViewGroup), h.Get)
		group.PUT("/:id", middleware.RequirePermission(permission.ChangeGroup), h.Update)
		group.DELETE("/:id", middleware.RequirePermission(permission.DeleteGroup), h.Delete)
	}
}

// List godoc
// @Summary      List groups
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        q         query  string  false  "Search term"
// @Param        ordering  query  string  false  "name or -name"
// @Param        page      query  int     false  "Page number"
// @Success      200  {object}  response.Response{data=ListResponse[service.GroupResponse]}
// @Router       /api/groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	q, p := parseList(c, repository.GroupListSpec, h.pageSize)
	page, err := h.groups.List(c.Request.Context(), q, p)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newListResponse(c, page, q)))
}

// Options godoc
// @Summary      Group choices
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.GroupResponse}
// @Router       /api/groups/options [get]
func (h *GroupHandler) Options(c *gin.Context) {
	groups, err := h.groups.Options(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, groups))
}

// Get godoc
// @Summary      Get a group with its permission assignment
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Group ID"
// @Success      200  {object}  response.Response{data=DetailResponse[service.GroupDetail]}
// @Failure      404  {object}  response.Response
// @Router       /api/groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, found := pathID(c, "Group")
	if !found {
		return
	}
	g, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newDetail(c, g)))
}

// Create godoc
// @Summary      Create a group
// @Description  On validation failure data carries the catalog with the submitted ids selected
// @Tags         groups
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GroupRequest  true  "Group"
// @Success      201      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response{data=service.PermissionAssignment}
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req service.GroupRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, req)
		return
	}
	respondCreated(c, "Group created successfully", g.ID)
}

// Update godoc
// @Summary      Update a group
// @Description  Changing a group's permissions does not touch employees created from it
// @Tags         groups
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Group ID"
// @Param        payload  body      service.GroupRequest  true  "Group"
// @Success      200      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response{data=service.PermissionAssignment}
// @Failure      404      {object}  response.Response
// @Router       /api/groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, found := pathID(c, "Group")
	if !found {
		return
	}
	var req service.GroupRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.groups.Update(c.Request.Context(), id, req); err != nil {
		h.fail(c, err, req)
		return
	}
	respondOK(c, "Group updated successfully", id)
}

// Delete godoc
// @Summary      Delete a group
// @Tags         groups
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Group ID"
// @Success      200  {object}  response.Response{data=response.Message}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	id, found := pathID(c, "Group")
	if !found {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Group deleted successfully", id)
}

// fail echoes the submitted selection so the form can be redisplayed.
func (h *GroupHandler) fail(c *gin.Context, err error, req service.GroupRequest) {
	if !apperr.IsValidation(err) {
		respondError(c, h.log, err, nil)
		return
	}
	assignment, aerr := h.perms.Assignment(c.Request.Context(), service.ParseIDs(req.PermissionIDs))
	if aerr != nil {
		respondError(c, h.log, aerr, nil)
		return
	}
	respondError(c, h.log, err, assignment)
}
