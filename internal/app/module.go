package app

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/config"
	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/guard"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/module/analytics"
	"github.com/simp-lee/hyve-admin/internal/module/auth"
	"github.com/simp-lee/hyve-admin/internal/module/company"
	"github.com/simp-lee/hyve-admin/internal/module/freelancer"
	"github.com/simp-lee/hyve-admin/internal/module/project"
	"github.com/simp-lee/hyve-admin/internal/module/team"
	"github.com/simp-lee/hyve-admin/internal/module/withdrawal"
	"github.com/simp-lee/hyve-admin/internal/session"
)

// Module defines the contract for a self-registering business module.
// Each module registers its own API and page routes.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

// Guard targets shared by the console routes.
var (
	consoleTarget    = guard.Target{Capability: domain.CapConsole, RequiresOnboarding: true}
	adminTarget      = guard.Target{Capability: domain.CapAdmin, RequiresOnboarding: true}
	onboardingTarget = guard.Target{Capability: domain.CapConsole, Onboarding: true}
)

type moduleDeps struct {
	API          *hyveapi.Client
	Store        *session.Store
	Lists        *listview.Registry
	Recorder     auth.LoginRecorder
	Cookie       middleware.CookieConfig
	Access       config.AccessConfig
	ListDefaults listview.Options
	Guard        func(guard.Target) gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
}

type modules struct {
	// public modules register outside the guard chain.
	public []Module
	// console modules sit behind the console guard.
	console []Module
}

// buildModules wires every module: services over the HYVE API client, then
// handlers, then the module.
func buildModules(d moduleDeps) modules {
	adminOnly := d.Guard(adminTarget)

	authSvc := auth.NewService(d.API, d.Store, d.Recorder)
	authMod := auth.NewModule(
		auth.NewHandler(authSvc, d.Cookie),
		auth.NewPageHandler(authSvc, d.Cookie, auth.Paths{Login: d.Access.LoginPath, Home: d.Access.HomePath}),
		auth.Guards{LoginLimit: d.LoginLimit, Onboarding: d.Guard(onboardingTarget)},
	)

	freelancers := freelancer.NewService(d.API)
	companies := company.NewService(d.API)
	teams := team.NewService(d.API)
	projects := project.NewService(d.API)
	withdrawals := withdrawal.NewService(d.API)
	overview := analytics.NewService(d.API)

	return modules{
		public: []Module{authMod},
		console: []Module{
			analytics.NewModule(analytics.NewHandler(overview), analytics.NewPageHandler(overview)),
			freelancer.NewModule(freelancer.NewHandler(freelancers), freelancer.NewPageHandler(freelancers, d.Lists, d.ListDefaults), adminOnly),
			company.NewModule(company.NewHandler(companies), company.NewPageHandler(companies, d.Lists, d.ListDefaults), adminOnly),
			team.NewModule(team.NewHandler(teams), team.NewPageHandler(teams, d.Lists, d.ListDefaults), adminOnly),
			project.NewModule(project.NewHandler(projects), project.NewPageHandler(projects, d.Lists, d.ListDefaults), adminOnly),
			withdrawal.NewModule(withdrawal.NewHandler(withdrawals), withdrawal.NewPageHandler(withdrawals, d.Lists, d.ListDefaults), adminOnly),
		},
	}
}
