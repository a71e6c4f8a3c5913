package notices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubPopupSource struct {
	noticeID  int64
	endsAt    *time.Time
	gotNow    time.Time
	gotToday  string
	dismissal structs.NoticeDismissal
}

func (s *stubPopupSource) GetPopup(ctx context.Context, dismissal structs.NoticeDismissal, now time.Time, today string) (*structs.NoticePopup, error) {
	s.gotNow = now
	s.gotToday = today
	s.dismissal = dismissal

	if s.endsAt != nil && s.endsAt.Before(now) {
		return &structs.NoticePopup{Today: today}, nil
	}

	popup := &structs.NoticePopup{Today: today, Show: lib.ShouldShowNotice(s.noticeID, dismissal, today)}
	if popup.Show {
		popup.Notice = &structs.NoticeView{ID: s.noticeID, Title: "여름 휴무"}
	}
	return popup, nil
}

func (s *stubPopupSource) Location() *time.Location {
	loc, _ := time.LoadLocation("Asia/Seoul")
	return loc
}

var testClock = time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)

func newTestRouter(source *stubPopupSource) http.Handler {
	nrm := NewNoticeRoutesManager(gecho.NewDefaultLogger(), source)
	nrm.now = func() time.Time { return testClock }

	r := chi.NewRouter()
	nrm.RegisterRoutes(r)
	return r
}

type popupEnvelope struct {
	Data structs.NoticePopup `json:"data"`
}

func getPopup(t *testing.T, router http.Handler, target string, cookies ...*http.Cookie) structs.NoticePopup {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env popupEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func TestPopupShownWithoutDismissal(t *testing.T) {
	source := &stubPopupSource{noticeID: 7}

	popup := getPopup(t, newTestRouter(source), "/notices/popup?date=2025-06-30")
	require.True(t, popup.Show)
	require.Equal(t, "2025-06-30", source.gotToday)
}

func TestPopupFallsBackToServerCalendar(t *testing.T) {
	source := &stubPopupSource{noticeID: 7}

	getPopup(t, newTestRouter(source), "/notices/popup?date=garbage")
	require.Equal(t, "2025-07-01", source.gotToday, "20:00 UTC is already the next day in Seoul")
	require.Equal(t, testClock, source.gotNow)
}

func TestPopupEligibilityUsesRouteClock(t *testing.T) {
	ended := testClock.Add(-time.Hour)
	source := &stubPopupSource{noticeID: 7, endsAt: &ended}

	popup := getPopup(t, newTestRouter(source), "/notices/popup?date=2025-06-30")
	require.False(t, popup.Show)
	require.Equal(t, testClock, source.gotNow)

	later := testClock.Add(time.Hour)
	source.endsAt = &later
	popup = getPopup(t, newTestRouter(source), "/notices/popup?date=2025-06-30")
	require.True(t, popup.Show)
}

func TestDismissHidesNoticeForTheDay(t *testing.T) {
	source := &stubPopupSource{noticeID: 7}
	router := newTestRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notices/7/dismiss?date=2025-06-30", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	popup := getPopup(t, router, "/notices/popup?date=2025-06-30", cookies...)
	require.False(t, popup.Show)
	require.Nil(t, popup.Notice)

	popup = getPopup(t, router, "/notices/popup?date=2025-07-01", cookies...)
	require.True(t, popup.Show, "a dismissal only lasts for its day")
}

func TestDismissingAnotherNoticeDoesNotHideNewOne(t *testing.T) {
	source := &stubPopupSource{noticeID: 8}
	router := newTestRouter(source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notices/7/dismiss?date=2025-06-30", nil))

	popup := getPopup(t, router, "/notices/popup?date=2025-06-30", rec.Result().Cookies()...)
	require.True(t, popup.Show)
}

func TestDismissRejectsInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubPopupSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notices/abc/dismiss", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
