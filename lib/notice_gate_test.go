package lib

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"eterna_server/structs"

	"github.com/stretchr/testify/require"
)

func TestShouldShowNotice(t *testing.T) {
	dismissed := structs.NoticeDismissal{NoticeID: "7", Date: "2025-06-01"}

	require.False(t, ShouldShowNotice(7, dismissed, "2025-06-01"))
	require.True(t, ShouldShowNotice(7, dismissed, "2025-06-02"), "a new day shows the notice again")
	require.True(t, ShouldShowNotice(8, dismissed, "2025-06-01"), "a different notice is always shown")
	require.True(t, ShouldShowNotice(7, structs.NoticeDismissal{}, "2025-06-01"))
}

func TestNoticeDismissalRoundTripsThroughCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoticeDismissal(rec, structs.NoticeDismissal{NoticeID: "3", Date: "2025-06-01"})

	req := httptest.NewRequest(http.MethodGet, "/notices/popup", nil)
	for _, c := range rec.Result().Cookies() {
		require.False(t, c.HttpOnly)
		req.AddCookie(c)
	}

	dismissal := ReadNoticeDismissal(req)
	require.Equal(t, "3", dismissal.NoticeID)
	require.Equal(t, "2025-06-01", dismissal.Date)
}

func TestResolveToday(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 16:00 UTC is already the next day in Seoul
	now := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)

	require.Equal(t, "2025-05-30", ResolveToday("2025-05-30", now, seoul))
	require.Equal(t, "2025-06-02", ResolveToday("", now, seoul))
	require.Equal(t, "2025-06-02", ResolveToday("not-a-date", now, seoul))
	require.Equal(t, "2025-06-01", ResolveToday("", now, nil))
}
