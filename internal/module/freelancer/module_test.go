package freelancer

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/listview"
)

func TestModuleRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := newMockService()
	mod := NewModule(NewHandler(svc), NewPageHandler(svc, listview.NewRegistry(), listview.Options{}), nil)
	mod.RegisterRoutes(r.Group("/api/v1"), r.Group(""))

	expected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/freelancers"},
		{http.MethodGet, "/api/v1/freelancers/:id"},
		{http.MethodPatch, "/api/v1/freelancers/:id"},
		{http.MethodPost, "/api/v1/freelancers/:id/verify"},
		{http.MethodDelete, "/api/v1/freelancers/:id"},
		{http.MethodGet, "/freelancers"},
		{http.MethodGet, "/freelancers/new"},
		{http.MethodPost, "/freelancers"},
		{http.MethodGet, "/freelancers/bulk"},
		{http.MethodPost, "/freelancers/bulk"},
		{http.MethodGet, "/freelancers/:id"},
		{http.MethodGet, "/freelancers/:id/edit"},
		{http.MethodPut, "/freelancers/:id"},
		{http.MethodPost, "/freelancers/:id/verify"},
		{http.MethodDelete, "/freelancers/:id/verify"},
		{http.MethodGet, "/freelancers/:id/delete"},
		{http.MethodDelete, "/freelancers/:id"},
	}

	registered := make(map[string]bool)
	for _, ri := range r.Routes() {
		registered[ri.Method+":"+ri.Path] = true
	}
	for _, exp := range expected {
		if !registered[exp.method+":"+exp.path] {
			t.Errorf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestNewModule_PanicsOnNilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewModule(nil, ...) did not panic")
		}
	}()
	NewModule(nil, &PageHandler{}, nil)
}

func TestNewModule_PanicsOnNilPageHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewModule(h, nil, ...) did not panic")
		}
	}()
	NewModule(&Handler{}, nil, nil)
}
