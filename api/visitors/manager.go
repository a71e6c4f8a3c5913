package visitors

import (
	"eterna_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type VisitorRoutesManager struct {
	logger         *gecho.Logger
	visitorService *services.VisitorService
}

func NewVisitorRoutesManager(logger *gecho.Logger, visitorService *services.VisitorService) *VisitorRoutesManager {
	return &VisitorRoutesManager{
		logger:         logger,
		visitorService: visitorService,
	}
}

func (vrm *VisitorRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/visitors", vrm.Increment)
	r.Get("/visitors/stats", vrm.GetStats)
}
