package structs

import "time"

type NoticeRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsActive  *bool  `json:"is_active,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type NoticeView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html"`
	IsActive    bool       `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NoticeDismissal is the single remembered dismissal of a browser.
type NoticeDismissal struct {
	NoticeID string `json:"closed_notice_id"`
	Date     string `json:"closed_notice_date"`
}

type NoticePopup struct {
	Notice *NoticeView `json:"notice"`
	Show   bool        `json:"show"`
	Today  string      `json:"today"`
}
