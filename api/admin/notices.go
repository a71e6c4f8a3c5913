package admin

import (
	"net/http"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := ar.noticeService.ListNotices(r.Context())
	if err != nil {
		handling.HandleServiceError(err, "Unable to load notices", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(notices), gecho.Send())
}

func (ar *AdminRoutesManager) CreateNotice(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.NoticeRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the notice and try again", ar.logger, w)
		return
	}

	notice, err := ar.noticeService.CreateNotice(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "Unable to create notice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Notice created"),
		gecho.WithData(notice),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.NoticeRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check the notice and try again", ar.logger, w)
		return
	}

	notice, err := ar.noticeService.UpdateNotice(r.Context(), id, body)
	if err != nil {
		handling.HandleServiceError(err, "Unable to update notice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Notice updated"),
		gecho.WithData(notice),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) ToggleNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	notice, err := ar.noticeService.ToggleNotice(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "Unable to toggle notice", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(notice), gecho.Send())
}

// DeleteNotice removes a notice; requires ?confirm=true
func (ar *AdminRoutesManager) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := ar.noticeService.DeleteNotice(r.Context(), id, lib.IsConfirmed(r)); err != nil {
		handling.HandleServiceError(err, "Unable to delete notice", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Notice deleted"), gecho.Send())
}
