package project

import "github.com/gin-gonic/gin"

// Module implements app.Module for the project screens.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	adminOnly   gin.HandlerFunc
}

// NewModule creates a Module. adminOnly guards deletion; it may be nil.
// Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, adminOnly gin.HandlerFunc) *Module {
	if h == nil {
		panic("project.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("project.NewModule: pageHandler must not be nil")
	}
	if adminOnly == nil {
		adminOnly = func(c *gin.Context) { c.Next() }
	}
	return &Module{handler: h, pageHandler: ph, adminOnly: adminOnly}
}

// RegisterRoutes registers project API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/projects", m.handler.List)
	api.GET("/projects/:id", m.handler.Get)
	api.PATCH("/projects/:id", m.handler.Update)
	api.DELETE("/projects/:id", m.adminOnly, m.handler.Delete)

	pages.GET("/projects", m.pageHandler.List)
	pages.GET("/projects/:id", m.pageHandler.Show)
	pages.GET("/projects/:id/edit", m.pageHandler.Edit)
	pages.PUT("/projects/:id", m.pageHandler.Update)
	pages.GET("/projects/:id/delete", m.adminOnly, m.pageHandler.ConfirmDelete)
	pages.DELETE("/projects/:id", m.adminOnly, m.pageHandler.Delete)
}
