package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"toonify/internal/service"
)

func protectedRouter(jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/flow/:id", JWTAuthMiddleware(jwtSvc), SessionScopeMiddleware(), func(c *gin.Context) {
		claims, _ := GetAuthClaims(c)
		c.JSON(http.StatusOK, gin.H{"sid": claims.SessionID})
	})
	return r
}

func TestJWTAuthMiddlewareMissingToken(t *testing.T) {
	r := protectedRouter(service.NewJWTService("secret", time.Minute, time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flow/session-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	r := protectedRouter(service.NewJWTService("secret", time.Minute, time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flow/session-1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", time.Minute, time.Hour)
	r := protectedRouter(jwtSvc)

	pair, err := jwtSvc.GeneratePair("session-1")
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flow/session-1", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessionScopeMiddlewareRejectsForeignSession(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", time.Minute, time.Hour)
	r := protectedRouter(jwtSvc)

	pair, err := jwtSvc.GeneratePair("session-1")
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flow/session-2", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
