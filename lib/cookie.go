package lib

import (
	"eterna_server/config"
	"net/http"
	"time"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
	CSRFCookieName    = "csrf"
	CSRFHeaderName    = "X-CSRF-Token"

	NoticeIDCookieName   = "closed_notice_id"
	NoticeDateCookieName = "closed_notice_date"
)

// baseCookie applies the environment's cross-site policy. In production the
// frontend and the API live on different subdomains, so cookies must be
// SameSite=None and Secure.
func baseCookie(key, val string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     key,
		Value:    val,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}

	if config.IsProduction() {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
		cookie.Domain = config.GetConfig().Server.CookieDomain
	}

	return cookie
}

// SetCookie sets a secure, HttpOnly cookie for authentication/session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	cookie := baseCookie(key, val)
	cookie.Expires = expiry
	cookie.HttpOnly = true

	http.SetCookie(w, cookie)
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	cookie := baseCookie(key, "")
	cookie.Expires = time.Now().Add(-time.Hour)
	cookie.MaxAge = -1
	cookie.HttpOnly = true

	http.SetCookie(w, cookie)
}

// ClearSessionCookies drops every cookie a sign-in sets
func ClearSessionCookies(w http.ResponseWriter) {
	ClearCookie(AccessCookieName, w)
	ClearCookie(RefreshCookieName, w)
	ClearCookie(CSRFCookieName, w)
}

// SetCSRFCookie sets a CSRF token cookie that must be readable by JavaScript
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	SetClientCookie(CSRFCookieName, val, expiry, w)
}

// SetClientCookie sets a cookie the frontend script reads and writes itself
func SetClientCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	cookie := baseCookie(key, val)
	cookie.Expires = expiry
	cookie.MaxAge = int(time.Until(expiry).Seconds())
	cookie.HttpOnly = false // Must be readable by JS

	http.SetCookie(w, cookie)
}
