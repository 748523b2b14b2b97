package freelancer

import "github.com/gin-gonic/gin"

// Module implements app.Module for the freelancer screens.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	adminOnly   gin.HandlerFunc
}

// NewModule creates a Module. adminOnly guards deletion; it may be nil.
// Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, adminOnly gin.HandlerFunc) *Module {
	if h == nil {
		panic("freelancer.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("freelancer.NewModule: pageHandler must not be nil")
	}
	if adminOnly == nil {
		adminOnly = func(c *gin.Context) { c.Next() }
	}
	return &Module{handler: h, pageHandler: ph, adminOnly: adminOnly}
}

// RegisterRoutes registers freelancer API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/freelancers", m.handler.List)
	api.GET("/freelancers/:id", m.handler.Get)
	api.PATCH("/freelancers/:id", m.handler.Update)
	api.POST("/freelancers/:id/verify", m.handler.Verify)
	api.DELETE("/freelancers/:id", m.adminOnly, m.handler.Delete)

	pages.GET("/freelancers", m.pageHandler.List)
	pages.GET("/freelancers/new", m.pageHandler.New)
	pages.POST("/freelancers", m.pageHandler.Create)
	pages.GET("/freelancers/bulk", m.pageHandler.BulkForm)
	pages.POST("/freelancers/bulk", m.pageHandler.BulkUpload)
	pages.GET("/freelancers/:id", m.pageHandler.Show)
	pages.GET("/freelancers/:id/edit", m.pageHandler.Edit)
	pages.PUT("/freelancers/:id", m.pageHandler.Update)
	pages.POST("/freelancers/:id/verify", m.pageHandler.Verify)
	pages.DELETE("/freelancers/:id/verify", m.pageHandler.Unverify)
	pages.GET("/freelancers/:id/delete", m.adminOnly, m.pageHandler.ConfirmDelete)
	pages.DELETE("/freelancers/:id", m.adminOnly, m.pageHandler.Delete)
}
