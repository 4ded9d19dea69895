package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"backoffice/internal/apperr"
	"backoffice/internal/listquery"
	"backoffice/internal/middleware"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Menu markers echoed as active_menu.
const (
	MenuDashboard     = "dashboard"
	MenuEmployees     = "employees"
	MenuGroups        = "groups"
	MenuCategories    = "categories"
	MenuSubCategories = "subcategories"
	MenuAuditLogs     = "audit_logs"
)

// ListResponse is a page of results plus what the client needs to rebuild
// sort and pagination links.
type ListResponse[T any] struct {
	pagination.Page[T]
	QueryString           string `json:"querystring"`
	QueryStringNoOrdering string `json:"querystring_no_ordering"`
	CurrentOrder          string `json:"current_order"`
	ActiveMenu            string `json:"active_menu"`
}

func newListResponse[T any](c *gin.Context, page *pagination.Page[T], q listquery.Query) ListResponse[T] {
	return ListResponse[T]{
		Page:                  *page,
		QueryString:           q.QueryString,
		QueryStringNoOrdering: q.QueryStringNoOrdering,
		CurrentOrder:          q.CurrentOrder,
		ActiveMenu:            middleware.MenuFrom(c),
	}
}

// DetailResponse wraps a single record with the menu marker.
type DetailResponse[T any] struct {
	Item       T      `json:"item"`
	ActiveMenu string `json:"active_menu"`
}

func newDetail[T any](c *gin.Context, item T) DetailResponse[T] {
	return DetailResponse[T]{Item: item, ActiveMenu: middleware.MenuFrom(c)}
}

// parseList reads list parameters and sizes the page from the requested page.
func parseList(c *gin.Context, spec listquery.Spec, pageSize int) (listquery.Query, pagination.Params) {
	q := spec.Parse(c.Request.URL.Query())
	return q, pagination.New(q.Page, pageSize)
}

// pathID parses :id. Malformed ids cannot match a record, so they are 404s.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, what+" not found"))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

func respondCreated(c *gin.Context, msg string, id uuid.UUID) {
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, response.Message{Message: msg, ID: id}))
}

func respondOK(c *gin.Context, msg string, id uuid.UUID) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Message{Message: msg, ID: id}))
}

// respondError renders expected failures as user feedback. Anything else is
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *slog.Logger, err error, data any) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) && appErr.Type != apperr.ErrorTypeInternal {
		if appErr.Type == apperr.ErrorTypeValidation {
			c.JSON(appErr.Code, response.Invalid(appErr.Code, appErr.Message, appErr.Fields, data))
			return
		}
		c.JSON(appErr.Code, response.Error(appErr.Code, appErr.Message))
		return
	}

	args := []any{"error", err, "method", c.Request.Method, "path", c.Request.URL.Path}
	if id := middleware.Identity(c); id != nil {
		args = append(args, "actor", id.Email)
	}
	log.ErrorContext(c.Request.Context(), "request failed", args...)
	_ = c.Error(err)

	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error occurred"))
}
