package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
)

func permissionRouter(principal *models.Principal, required models.PermissionCode) *gin.Engine {
	gin.SetMode(gin.TestMode)
	access := service.NewAccessService(nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(ContextPrincipalKey, principal)
		}
		c.Next()
	})
	router.Use(RequirePermission(access, required))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequirePermissionAllowsHolder(t *testing.T) {
	principal := &models.Principal{
		UserID: "u1",
		Role:   &models.Role{ID: "r1", Permissions: []models.PermissionCode{models.PermManageProposals}},
	}
	router := permissionRouter(principal, models.PermManageProposals)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionBlocksMissingCode(t *testing.T) {
	principal := &models.Principal{
		UserID: "u1",
		Role:   &models.Role{ID: "r1", Permissions: []models.PermissionCode{models.PermCrudStudents}},
	}
	router := permissionRouter(principal, models.PermManageProposals)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionAllowsSuperuser(t *testing.T) {
	principal := &models.Principal{UserID: "u1", IsSuperuser: true}
	router := permissionRouter(principal, models.PermManageUsers)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionWithoutPrincipal(t *testing.T) {
	router := permissionRouter(nil, models.PermManageUsers)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
