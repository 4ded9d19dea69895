package handler

import (
	"log/slog"
	"net/http"
	"time"

	"backoffice/internal/middleware"
	"backoffice/internal/service"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   service.AuthService
	cookie middleware.CookieOptions
	log    *slog.Logger
}

func NewAuthHandler(auth service.AuthService, cookie middleware.CookieOptions, log *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, log: log}
}

// RegisterRoutes binds login on public and the session endpoints on authed.
func (h *AuthHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
}

type loginResponse struct {
	AccessToken string              `json:"access_token"`
	ExpiresAt   time.Time           `json:"expires_at"`
	Me          *service.MeResponse `json:"me"`
}

// Login godoc
// @Summary      Sign in
// @Description  Opens a server-side session and sets it as an HttpOnly cookie. The token is also returned for Bearer clients.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=loginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, res.Token, time.Until(res.ExpiresAt))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loginResponse{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
		Me:          res.Me,
	}))
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the current session and clears the cookie
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=response.Message}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	id := middleware.Identity(c)
	if err := h.auth.Logout(c.Request.Context(), id.SessionID); err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	middleware.ClearSessionCookie(c, h.cookie)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Message{Message: "Logged out successfully"}))
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.MeResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.auth.Me(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, h.log, err, nil)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, me))
}
