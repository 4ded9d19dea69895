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

type SubCategoryHandler struct {
	subCategories service.SubCategoryService
	categories    service.CategoryService
	log           *slog.Logger
	pageSize      int
}

func NewSubCategoryHandler(subCategories service.SubCategoryService, categories service.CategoryService, log *slog.Logger, pageSize int) *SubCategoryHandler {
	return &SubCategoryHandler{subCategories: subCategories, categories: categories, log: log, pageSize: pageSize}
}

func (h *SubCategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/subcategories", middleware.ActiveMenu(MenuSubCategories))
	{
		group.GET("", middleware.RequirePermission(permission.ViewSubCategory), h.List)
		group.POST("", middleware.RequirePermission(permission.AddSubCategory), h.Create)
		group.GET("/category-options", middleware.RequireAnyPermission(permission.AddSubCategory, permission.ChangeSubCategory), h.CategoryOptions)
		group.GET("/:id", middleware.RequirePermission(permission.ViewSubCategory), h.Get)
		group.PUT("/:id", middleware.RequirePermission(permission.ChangeSubCategory), h.Update)
		group.DELETE("/:id", middleware.RequirePermission(permission.DeleteSubCategory), h.Delete)
	}
}

// List godoc
// @Summary      List sub categories
// @Tags         subcategories
// @Security     BearerAuth
// @Produce      json
// @Param        q          query  string  false  "Search term"
// @Param        is_active  query  string  false  "true or false"
// @Param        ordering   query  string  false  "name, is_active, prefix with - for descending"
// @Param        page       query  int     false  "Page number"
// @Success      200  {object}  response.Response{data=ListResponse[service.SubCategoryResponse]}
// @Router       /api/subcategories [get]
func (h *SubCategoryHandler) List(c *gin.Context) {
	q, p := parseList(c, repository.SubCategoryListSpec, h.pageSize)
	page, err := h.subCategories.List(c.Request.Context(), q, p)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newListResponse(c, page, q)))
}

// CategoryOptions godoc
// @Summary      Categories a sub category can belong to
// @Description  Active categories ordered by name
// @Tags         subcategories
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.CategoryOption}
// @Router       /api/subcategories/category-options [get]
func (h *SubCategoryHandler) CategoryOptions(c *gin.Context) {
	opts, err := h.categories.Options(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, opts))
}

// Get godoc
// @Summary      Get a sub category
// @Tags         subcategories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sub category ID"
// @Success      200  {object}  response.Response{data=DetailResponse[service.SubCategoryResponse]}
// @Failure      404  {object}  response.Response
// @Router       /api/subcategories/{id} [get]
func (h *SubCategoryHandler) Get(c *gin.Context) {
	id, found := pathID(c, "Sub category")
	if !found {
		return
	}
	sub, err := h.subCategories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, newDetail(c, sub)))
}

// Create godoc
// @Summary      Create a sub category
// @Tags         subcategories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubCategoryRequest  true  "Sub category"
// @Success      201      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Router       /api/subcategories [post]
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req service.SubCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.subCategories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondCreated(c, "Sub category created successfully", sub.ID)
}

// Update godoc
// @Summary      Update a sub category
// @Tags         subcategories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Sub category ID"
// @Param        payload  body      service.SubCategoryRequest  true  "Sub category"
// @Success      200      {object}  response.Response{data=response.Message}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/subcategories/{id} [put]
func (h *SubCategoryHandler) Update(c *gin.Context) {
	id, found := pathID(c, "Sub category")
	if !found {
		return
	}
	var req service.SubCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.subCategories.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Sub category updated successfully", id)
}

// Delete godoc
// @Summary      Delete a sub category
// @Tags         subcategories
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Sub category ID"
// @Success      200  {object}  response.Response{data=response.Message}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/subcategories/{id} [delete]
func (h *SubCategoryHandler) Delete(c *gin.Context) {
	id, found := pathID(c, "Sub category")
	if !found {
		return
	}
	if err := h.subCategories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	respondOK(c, "Sub category deleted successfully", id)
}
