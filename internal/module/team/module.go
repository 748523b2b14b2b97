package team

import "github.com/gin-gonic/gin"

// Module implements app.Module for the team screens.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	adminOnly   gin.HandlerFunc
}

// NewModule creates a Module. adminOnly guards deletion; it may be nil.
// Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, adminOnly gin.HandlerFunc) *Module {
	if h == nil {
		panic("team.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("team.NewModule: pageHandler must not be nil")
	}
	if adminOnly == nil {
		adminOnly = func(c *gin.Context) { c.Next() }
	}
	return &Module{handler: h, pageHandler: ph, adminOnly: adminOnly}
}

// RegisterRoutes registers team API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/teams", m.handler.List)
	api.GET("/teams/:id", m.handler.Get)
	api.PATCH("/teams/:id", m.handler.Update)
	api.DELETE("/teams/:id", m.adminOnly, m.handler.Delete)

	pages.GET("/teams", m.pageHandler.List)
	pages.GET("/teams/:id", m.pageHandler.Show)
	pages.GET("/teams/:id/edit", m.pageHandler.Edit)
	pages.PUT("/teams/:id", m.pageHandler.Update)
	pages.GET("/teams/:id/delete", m.adminOnly, m.pageHandler.ConfirmDelete)
	pages.DELETE("/teams/:id", m.adminOnly, m.pageHandler.Delete)
}
