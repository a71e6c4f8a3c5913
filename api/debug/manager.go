package debug

import (
	"eterna_server/config"
	"eterna_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	seedService  *services.SeedService
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, seedService *services.SeedService) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		seedService:  seedService,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Post("/seed", drm.Seed)
			r.Post("/cache/clear", drm.ClearCache)
			r.Get("/ratelimit", drm.RateLimitStatus)
		})
	}
}
