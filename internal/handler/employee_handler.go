package handler

import (
	"log/slog"
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employees service.EmployeeService
	log       *slog.Logger
	pageSize  int
}

func NewEmployeeHandler(employees service.EmployeeService, log *slog.Logger, pageSize int) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, log: log, pageSize: pageSize}
}

// RegisterRoutes expects router to be behind RequireSession.
func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/employees", middleware.ActiveMenu(MenuEmployees))
	{
		group.GET("", middleware.RequirePermission(permission.ViewEmployee), h.List)
		group.POST("", middleware.RequirePermission(permission.AddEmployee), h.Create)
		group.GET("/:id", middleware.RequirePermission(permission.ViewEmployee), h.Get)
		group.PUT("/:id", middleware.RequirePermission(permission.ChangeEmployee), h.Update)
		group.DELETE("/:id", middleware.RequirePermission(permission.DeleteEmployee), h.Delete)
		group.GET("/:id/permissions", middleware.RequirePermission(permission.ChangeEmployee), h.GetPermissions)
		group.PUT("/:id/permissions", middleware.RequirePermission(permission.ChangeEmployee), h.ReplacePermissions)
	}
}

// List godoc
// @Summary      List employees
// @Description  Accent and case insensitive search over email, names, phones and reference
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        q                          query  string  false  "Search term"
// @Param        is_active                  query  string  false  "true or false"
// @Param        commission_general_public  query  string  false  "true or false"
// @Param        ordering                   query  string  false  "Sort key, prefix with - for descending"
// @Param        page                       query  int     false  "Page number"
// @Success      200  {object}  response.Response{data=ListResponse[service.EmployeeResponse]}
// @Failure      403  {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	q, p := parseList(c, repository.EmployeeListSpec, h.pageSize)
	page, err := h.employees.List(c.Request.Context(), q, p)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newListResponse(c, page, q)))
}

// Get godoc
// @Summary      Get an employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=DetailResponse[service.EmployeeResponse]}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, found := pathID(c, "Employee")
	if !found {
		return
	}
	emp, err := h.employees.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newDetail(c, emp)))
}

// Create godoc
// @Summary      Create an employee
// @Description  Creates the account and profile together and copies the chosen group's permissions
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	emp, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondCreated(c, "Employee created successfully", emp.ID)
}

// Update godoc
// @Summary      Update an employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, found := pathID(c, "Employee")
	if !found {
		return
	}
	var req service.UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.employees.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Employee updated successfully", id)
}

// Delete godoc
// @Summary      Delete an employee
// @Description  Removes the profile and its account; fails with 409 while other records reference them
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=response.Message}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, found := pathID(c, "Employee")
	if !found {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Employee deleted successfully", id)
}

type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// GetPermissions godoc
// @Summary      Employee permission assignment
// @Description  Grouped catalog with the employee's direct grants selected
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=service.PermissionAssignment}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id}/permissions [get]
func (h *EmployeeHandler) GetPermissions(c *gin.Context) {
	id, found := pathID(c, "Employee")
	if !found {
		return
	}
	assignment, err := h.employees.Permissions(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}

// ReplacePermissions godoc
// @Summary      Replace employee permissions
// @Description  Ids that are unknown or outside the assignable catalog are ignored
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Employee ID"
// @Param        payload  body      permissionsRequest  true  "Permission ids"
// @Success      200      {object}  response.Response{data=service.PermissionAssignment}
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id}/permissions [put]
func (h *EmployeeHandler) ReplacePermissions(c *gin.Context) {
	id, found := pathID(c, "Employee")
	if !found {
		return
	}
	var req permissionsRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.employees.ReplacePermissions(c.Request.Context(), id, req.Permissions)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, assignment))
}
