package notices

import (
	"context"
	"time"

	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// PopupSource decides which notice a browser sees. now is the request clock
// used for eligibility; today is the calendar day used for dismissals.
type PopupSource interface {
	GetPopup(ctx context.Context, dismissal structs.NoticeDismissal, now time.Time, today string) (*structs.NoticePopup, error)
	Location() *time.Location
}

type NoticeRoutesManager struct {
	logger  *gecho.Logger
	notices PopupSource
	now     func() time.Time
}

func NewNoticeRoutesManager(logger *gecho.Logger, notices PopupSource) *NoticeRoutesManager {
	return &NoticeRoutesManager{
		logger:  logger,
		notices: notices,
		now:     time.Now,
	}
}

func (nrm *NoticeRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/notices", func(r chi.Router) {
		r.Get("/popup", nrm.GetPopup)
		r.Post("/{id}/dismiss", nrm.Dismiss)
	})
}
