package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/authctx"
	"backoffice/internal/obs"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	tokens map[string]*authctx.Identity
	err    error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*authctx.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return nil, apperr.NewUnauthorizedError("Invalid session")
}

func identity(codes ...string) *authctx.Identity {
	perms := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		perms[c] = struct{}{}
	}
	return &authctx.Identity{AccountID: uuid.New(), SessionID: uuid.New(), Email: "ana@example.com", Permissions: perms}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestRequireSession(t *testing.T) {
	ana := identity("view_employee")
	auth := stubAuth{tokens: map[string]*authctx.Identity{"good": ana}}

	r := gin.New()
	r.GET("/p", RequireSession(auth, "sid"), func(c *gin.Context) {
		fromGin := Identity(c)
		fromCtx := authctx.From(c.Request.Context())
		require.NotNil(t, fromGin)
		require.NotNil(t, fromCtx)
		c.String(http.StatusOK, fromCtx.Email)
	})

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "sid", Value: "good"}) }, http.StatusOK},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"malformed header", func(req *http.Request) { req.Header.Set("Authorization", "Token good") }, http.StatusUnauthorized},
		{"unknown token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer bad") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, ana.Email, w.Body.String())
			}
		})
	}
}

func TestRequireSession_StoreFailureIs500(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequireSession(stubAuth{err: assert.AnError}, "sid"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func withIdentity(id *authctx.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

func TestRequirePermission(t *testing.T) {
	super := identity()
	super.IsSuperuser = true

	tests := []struct {
		name   string
		id     *authctx.Identity
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"missing code", identity("view_employee"), http.StatusForbidden},
		{"has code", identity("view_employee", "add_employee"), http.StatusOK},
		{"superuser", super, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.POST("/p", withIdentity(tt.id), RequirePermission("add_employee"), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/p", nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status == http.StatusOK, reached)
			if tt.status == http.StatusForbidden {
				assert.Contains(t, decode(t, w).Error, "add_employee")
			}
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	r := gin.New()
	r.GET("/any/:who", func(c *gin.Context) {
		switch c.Param("who") {
		case "changer":
			c.Set(identityKey, identity("change_subcategory"))
		case "viewer":
			c.Set(identityKey, identity("view_subcategory"))
		}
	}, RequireAnyPermission("add_subcategory", "change_subcategory"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for who, status := range map[string]int{"changer": http.StatusOK, "viewer": http.StatusForbidden, "nobody": http.StatusUnauthorized} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/any/"+who, nil))
		assert.Equal(t, status, w.Code, who)
	}
}

func TestActiveMenu(t *testing.T) {
	r := gin.New()
	r.GET("/m", ActiveMenu("employees"), func(c *gin.Context) {
		c.String(http.StatusOK, MenuFrom(c))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/m", nil))
	assert.Equal(t, "employees", w.Body.String())
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, level := range map[string]string{"/ok": "DEBUG", "/missing": "WARN", "/fail": "ERROR"} {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), path)
		assert.Equal(t, level, entry["level"], path)
		assert.Equal(t, path, entry["path"])
	}
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := obs.NewMetrics()

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/employees/:id", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/employees/"+uuid.NewString(), nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `path="/api/employees/:id"`)
	assert.Contains(t, body, `path="unmatched"`)
}

func TestSessionCookie(t *testing.T) {
	opts := CookieOptions{Name: "sid", Secure: true}
	r := gin.New()
	r.GET("/in", func(c *gin.Context) { SetSessionCookie(c, opts, "tok", time.Hour) })
	r.GET("/out", func(c *gin.Context) { ClearSessionCookie(c, opts) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/in", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/out", nil))
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}
