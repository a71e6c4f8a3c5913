package api

import (
	"eterna_server/api/admin"
	"eterna_server/api/auth"
	"eterna_server/api/debug"
	"eterna_server/api/health"
	"eterna_server/api/middleware"
	"eterna_server/api/notices"
	"eterna_server/api/products"
	"eterna_server/api/visitors"
	"eterna_server/services"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type routerManager struct {
	routes []routeRegistrar
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		routes: []routeRegistrar{
			products.NewProductRoutesManager(logger, sm.CatalogService),
			notices.NewNoticeRoutesManager(logger, sm.NoticeService),
			visitors.NewVisitorRoutesManager(logger, sm.VisitorService),
			health.NewHealthRoutesManager(sm.HealthService),
			auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
			admin.NewAdminRoutesManager(logger, cfg, sm, mw),
			debug.NewDebugRoutesManager(logger, sm.CacheService, sm.SeedService),
		},
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	for _, routes := range rm.routes {
		routes.RegisterRoutes(r)
	}
}
