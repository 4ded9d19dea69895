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

type CategoryHandler struct {
	categories service.CategoryService
	log        *slog.Logger
	pageSize   int
}

func NewCategoryHandler(categories service.CategoryService, log *slog.Logger, pageSize int) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log, pageSize: pageSize}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/categories", middleware.ActiveMenu(MenuCategories))
	{
		group.GET("", middleware.RequirePermission(permission.ViewCategory), h.List)
		group.POST("", middleware.RequirePermission(permission.AddCategory), h.Create)
		group.GET("/:id", middleware.RequirePermission(permission.ViewCategory), h.Get)
		group.PUT("/:id", middleware.RequirePermission(permission.ChangeCategory), h.Update)
		group.DELETE("/:id", middleware.RequirePermission(permission.DeleteCategory), h.Delete)
	}
}

// List godoc
// @Summary      List categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        q          query  string  false  "Search term"
// @Param        is_active  query  string  false  "true or false"
// @Param        ordering   query  string  false  "name, is_active, prefix with - for descending"
// @Param        page       query  int     false  "Page number"
// @Success      200  {object}  response.Response{data=ListResponse[service.CategoryResponse]}
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	q, p := parseList(c, repository.CategoryListSpec, h.pageSize)
	page, err := h.categories.List(c.Request.Context(), q, p)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newListResponse(c, page, q)))
}

// Get godoc
// @Summary      Get a category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=DetailResponse[service.CategoryResponse]}
// @Failure      404  {object}  response.Response
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, found := pathID(c, "Category")
	if !found {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newDetail(c, cat)))
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CategoryRequest  true  "Category"
// @Success      201      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondCreated(c, "Category created successfully", cat.ID)
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Category"
// @Success      200      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, found := pathID(c, "Category")
	if !found {
		return
	}
	var req service.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.categories.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Category updated successfully", id)
}

// Delete godoc
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response{data=response.Message}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, found := pathID(c, "Category")
	if !found {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Category deleted successfully", id)
}
