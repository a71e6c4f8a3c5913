package lib

import (
	"net/http"
	"strconv"
	"time"

	"eterna_server/structs"
)

const (
	// DateLayout is the calendar-day format shared with the frontend
	DateLayout = "2006-01-02"

	noticeDismissalLifetime = 365 * 24 * time.Hour
)

// ShouldShowNotice reports whether the popup for noticeID is shown on today.
// It stays hidden only when this exact notice was dismissed on this exact day.
func ShouldShowNotice(noticeID int64, dismissal structs.NoticeDismissal, today string) bool {
	return dismissal.NoticeID != strconv.FormatInt(noticeID, 10) || dismissal.Date != today
}

// ReadNoticeDismissal reads the dismissal cookies. Missing cookies yield an
// empty dismissal, which never hides a notice.
func ReadNoticeDismissal(r *http.Request) structs.NoticeDismissal {
	var dismissal structs.NoticeDismissal

	if id, err := GetCookieValue(NoticeIDCookieName, r); err == nil {
		dismissal.NoticeID = id
	}

	if date, err := GetCookieValue(NoticeDateCookieName, r); err == nil {
		dismissal.Date = date
	}

	return dismissal
}

// WriteNoticeDismissal overwrites both dismissal cookies for a year
func WriteNoticeDismissal(w http.ResponseWriter, dismissal structs.NoticeDismissal) {
	expiry := time.Now().Add(noticeDismissalLifetime)

	SetClientCookie(NoticeIDCookieName, dismissal.NoticeID, expiry, w)
	SetClientCookie(NoticeDateCookieName, dismissal.Date, expiry, w)
}

// ResolveToday returns the client's calendar day when it sent a valid one,
// otherwise today in loc.
func ResolveToday(clientDate string, now time.Time, loc *time.Location) string {
	if clientDate != "" {
		if _, err := time.Parse(DateLayout, clientDate); err == nil {
			return clientDate
		}
	}

	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}
