package auth

import "github.com/gin-gonic/gin"

// Guards are the middleware the auth routes need from the application.
// Nil entries let every request through.
type Guards struct {
	// LoginLimit throttles credential submissions.
	LoginLimit gin.HandlerFunc
	// Onboarding admits signed-in users who have not finished onboarding.
	Onboarding gin.HandlerFunc
}

// Module implements app.Module for login, logout and onboarding. Its routes
// are registered outside the console guard chain.
type Module struct {
	handler     *Handler
	pageHandler *PageHandler
	guards      Guards
}

// NewModule creates a Module. Panics if h or ph is nil.
func NewModule(h *Handler, ph *PageHandler, guards Guards) *Module {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("auth.NewModule: pageHandler must not be nil")
	}
	pass := func(c *gin.Context) { c.Next() }
	if guards.LoginLimit == nil {
		guards.LoginLimit = pass
	}
	if guards.Onboarding == nil {
		guards.Onboarding = pass
	}
	return &Module{handler: h, pageHandler: ph, guards: guards}
}

// RegisterRoutes registers auth API and page routes.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/login", m.guards.LoginLimit, m.handler.Login)
	auth.POST("/logout", m.handler.Logout)

	pages.GET("/login", m.pageHandler.LoginForm)
	pages.POST("/login", m.guards.LoginLimit, m.pageHandler.Login)
	pages.POST("/logout", m.pageHandler.Logout)
	pages.GET("/onboarding", m.guards.Onboarding, m.pageHandler.OnboardingForm)
	pages.POST("/onboarding", m.guards.Onboarding, m.pageHandler.Onboarding)
}
