package notices

import (
	"net/http"
	"strconv"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetPopup handles GET /notices/popup?date=YYYY-MM-DD
func (nrm *NoticeRoutesManager) GetPopup(w http.ResponseWriter, r *http.Request) {
	now := nrm.now()
	today := lib.ResolveToday(r.URL.Query().Get("date"), now, nrm.notices.Location())
	dismissal := lib.ReadNoticeDismissal(r)

	popup, err := nrm.notices.GetPopup(r.Context(), dismissal, now, today)
	if err != nil {
		handling.HandleServiceError(err, "Unable to load notice", nrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(popup),
		gecho.Send(),
	)
}

// Dismiss handles POST /notices/{id}/dismiss, hiding that notice for the rest of the day.
// Only the latest dismissal is remembered.
func (nrm *NoticeRoutesManager) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid notice id"), gecho.Send())
		return
	}

	dismissal := structs.NoticeDismissal{
		NoticeID: strconv.FormatInt(id, 10),
		Date:     lib.ResolveToday(r.URL.Query().Get("date"), nrm.now(), nrm.notices.Location()),
	}
	lib.WriteNoticeDismissal(w, dismissal)

	gecho.Success(w,
		gecho.WithMessage("Notice dismissed for today"),
		gecho.WithData(dismissal),
		gecho.Send(),
	)
}
