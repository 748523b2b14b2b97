package analytics

import "github.com/gin-gonic/gin"

// Module implements app.Module for the dashboard and analytics screens.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
}

// NewModule creates a Module. Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler) *Module {
	if h == nil {
		panic("analytics.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("analytics.NewModule: pageHandler must not be nil")
	}
	return &Module{handler: h, pageHandler: ph}
}

// RegisterRoutes registers analytics API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/analytics/overview", m.handler.Overview)

	pages.GET("/dashboard", m.pageHandler.Dashboard)
	pages.GET("/analytics", m.pageHandler.Index)
	pages.GET("/analytics/export.pdf", m.pageHandler.Export)
}
