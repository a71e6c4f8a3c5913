package visitors

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Increment handles POST /visitors. The count is written in the background and
// the response never waits for it.
func (vrm *VisitorRoutesManager) Increment(w http.ResponseWriter, r *http.Request) {
	vrm.visitorService.Increment()
	w.WriteHeader(http.StatusAccepted)
}

// GetStats handles GET /visitors/stats; failures read as zero counts
func (vrm *VisitorRoutesManager) GetStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(vrm.visitorService.GetStats(r.Context())),
		gecho.Send(),
	)
}
