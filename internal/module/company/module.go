package company

import "github.com/gin-gonic/gin"

// Module implements app.Module for the company screens.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	adminOnly   gin.HandlerFunc
}

// NewModule creates a Module. adminOnly guards deletion; it may be nil.
// Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, adminOnly gin.HandlerFunc) *Module {
	if h == nil {
		panic("company.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("company.NewModule: pageHandler must not be nil")
	}
	if adminOnly == nil {
		adminOnly = func(c *gin.Context) { c.Next() }
	}
	return &Module{handler: h, pageHandler: ph, adminOnly: adminOnly}
}

// RegisterRoutes registers company API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/companies", m.handler.List)
	api.GET("/companies/:id", m.handler.Get)
	api.PATCH("/companies/:id", m.handler.Update)
	api.POST("/companies/:id/verify", m.handler.Verify)
	api.DELETE("/companies/:id", m.adminOnly, m.handler.Delete)

	pages.GET("/companies", m.pageHandler.List)
	pages.GET("/companies/new", m.pageHandler.New)
	pages.POST("/companies", m.pageHandler.Create)
	pages.GET("/companies/:id", m.pageHandler.Show)
	pages.GET("/companies/:id/edit", m.pageHandler.Edit)
	pages.PUT("/companies/:id", m.pageHandler.Update)
	pages.POST("/companies/:id/verify", m.pageHandler.Verify)
	pages.DELETE("/companies/:id/verify", m.pageHandler.Unverify)
	pages.GET("/companies/:id/delete", m.adminOnly, m.pageHandler.ConfirmDelete)
	pages.DELETE("/companies/:id", m.adminOnly, m.pageHandler.Delete)
}
