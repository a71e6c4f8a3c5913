package debug

import (
	"net/http"

	"eterna_server/handling"

	"github.com/MonkyMars/gecho"
)

// Seed replaces the catalog with the development fixture
func (drm *DebugRoutesManager) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := drm.seedService.Seed(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to seed catalog", drm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Catalog seeded"),
		gecho.WithData(result),
		gecho.Send(),
	)
}
