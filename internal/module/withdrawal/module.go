package withdrawal

import "github.com/gin-gonic/gin"

// Module implements app.Module for the withdrawal queue.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	adminOnly   gin.HandlerFunc
}

// NewModule creates a Module. adminOnly guards every decision; it may be
// nil. Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, adminOnly gin.HandlerFunc) *Module {
	if h == nil {
		panic("withdrawal.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("withdrawal.NewModule: pageHandler must not be nil")
	}
	if adminOnly == nil {
		adminOnly = func(c *gin.Context) { c.Next() }
	}
	return &Module{handler: h, pageHandler: ph, adminOnly: adminOnly}
}

// RegisterRoutes registers withdrawal API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	api.GET("/withdrawals", m.handler.List)
	api.GET("/withdrawals/:id", m.handler.Get)
	api.POST("/withdrawals/:id/approve", m.adminOnly, m.handler.Approve)
	api.POST("/withdrawals/:id/reject", m.adminOnly, m.handler.Reject)

	pages.GET("/withdrawals", m.pageHandler.List)
	pages.GET("/withdrawals/:id", m.pageHandler.Show)
	pages.GET("/withdrawals/:id/approve", m.adminOnly, m.pageHandler.ConfirmApprove)
	pages.POST("/withdrawals/:id/approve", m.adminOnly, m.pageHandler.Approve)
	pages.GET("/withdrawals/:id/reject", m.adminOnly, m.pageHandler.RejectForm)
	pages.POST("/withdrawals/:id/reject", m.adminOnly, m.pageHandler.Reject)
}
