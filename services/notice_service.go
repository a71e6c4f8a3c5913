package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"eterna_server/database"
	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/microcosm-cc/bluemonday"
	"github.com/uptrace/bun"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	msgNoticeFieldsRequired = "제목과 내용을 모두 입력해주세요."
	popupQueryTimeout       = 3 * time.Second
)

var (
	noticeMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	noticePolicy = newNoticePolicy()
)

func newNoticePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

type NoticeService struct {
	logger   *gecho.Logger
	db       *database.DB
	location *time.Location
}

func NewNoticeService(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *NoticeService {
	loc, err := time.LoadLocation(cfg.Notice.Timezone)
	if err != nil {
		logger.Warn("Unknown notice timezone, falling back to UTC",
			gecho.Field("timezone", cfg.Notice.Timezone),
			gecho.Field("error", err),
		)
		loc = time.UTC
	}

	return &NoticeService{
		logger:   logger,
		db:       db,
		location: loc,
	}
}

// Location is the calendar used when a client does not send its own date
func (ns *NoticeService) Location() *time.Location {
	return ns.location
}

// eligibleNoticeQuery selects the newest active notice whose end date is
// open or not yet passed at now. start_date does not gate eligibility.
func eligibleNoticeQuery(db bun.IDB, now time.Time) *database.QueryBuilder[tables.Notice] {
	return database.Query[tables.Notice](db).
		Where("is_active", true).
		Or().WhereRaw("?TableAlias.end_date IS NULL").WhereOp("end_date", ">=", now).End().
		OrderBy("created_at", database.DESC).
		Limit(1)
}

// GetEligibleNotice returns the newest active notice that has not ended, or nil
func (ns *NoticeService) GetEligibleNotice(ctx context.Context, now time.Time) (*tables.Notice, error) {
	notice, err := eligibleNoticeQuery(ns.db, now).
		Timeout(popupQueryTimeout).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", lib.MapPgError(err))
	}
	return notice, nil
}

// GetPopup decides whether the browser with this dismissal sees the popup today
func (ns *NoticeService) GetPopup(ctx context.Context, dismissal structs.NoticeDismissal, now time.Time, today string) (*structs.NoticePopup, error) {
	notice, err := ns.GetEligibleNotice(ctx, now)
	if err != nil {
		return nil, err
	}

	popup := &structs.NoticePopup{Today: today}
	if notice == nil {
		return popup, nil
	}

	popup.Show = lib.ShouldShowNotice(notice.ID, dismissal, today)
	if popup.Show {
		view := ToNoticeView(notice)
		popup.Notice = &view
	}
	return popup, nil
}

// ListNotices returns every notice, newest first
func (ns *NoticeService) ListNotices(ctx context.Context) ([]structs.NoticeView, error) {
	notices, err := database.Query[tables.Notice](ns.db).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", lib.MapPgError(err))
	}

	views := make([]structs.NoticeView, 0, len(notices))
	for i := range notices {
		views = append(views, ToNoticeView(&notices[i]))
	}
	return views, nil
}

func (ns *NoticeService) GetNotice(ctx context.Context, id int64) (*structs.NoticeView, error) {
	notice, err := database.FindByID[tables.Notice](ctx, ns.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", lib.MapPgError(err))
	}
	if notice == nil {
		return nil, lib.ErrNotFound
	}

	view := ToNoticeView(notice)
	return &view, nil
}

func (ns *NoticeService) CreateNotice(ctx context.Context, req *structs.NoticeRequest) (*structs.NoticeView, error) {
	fields, err := ns.noticeFields(req)
	if err != nil {
		return nil, err
	}

	notice := &tables.Notice{
		Title:     fields.title,
		Content:   fields.content,
		IsActive:  req.IsActive == nil || *req.IsActive,
		StartDate: fields.start,
		EndDate:   fields.end,
	}

	created, err := database.Query[tables.Notice](ns.db).Insert(ctx, notice)
	if err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", lib.MapPgError(err))
	}

	ns.logger.Info("Notice created", gecho.Field("id", created.ID))
	view := ToNoticeView(created)
	return &view, nil
}

func (ns *NoticeService) UpdateNotice(ctx context.Context, id int64, req *structs.NoticeRequest) (*structs.NoticeView, error) {
	fields, err := ns.noticeFields(req)
	if err != nil {
		return nil, err
	}

	columns := map[string]any{
		"title":      fields.title,
		"content":    fields.content,
		"start_date": fields.start,
		"end_date":   fields.end,
	}
	if req.IsActive != nil {
		columns["is_active"] = *req.IsActive
	}

	affected, err := database.Query[tables.Notice](ns.db).Where("id", id).Update(ctx, columns)
	if err != nil {
		return nil, fmt.Errorf("failed to update notice: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return nil, lib.ErrNotFound
	}

	return ns.GetNotice(ctx, id)
}

// ToggleNotice flips is_active and returns the notice as stored afterwards
func (ns *NoticeService) ToggleNotice(ctx context.Context, id int64) (*structs.NoticeView, error) {
	notice, err := database.RawQueryOne[tables.Notice](ctx, ns.db,
		"UPDATE notices SET is_active = NOT is_active WHERE id = ? RETURNING *", id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle notice: %w", lib.MapPgError(err))
	}
	if notice == nil {
		return nil, lib.ErrNotFound
	}

	view := ToNoticeView(notice)
	return &view, nil
}

func (ns *NoticeService) DeleteNotice(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return lib.ErrConfirmationRequired
	}

	affected, err := database.DeleteByID[tables.Notice](ctx, ns.db, id)
	if err != nil {
		return fmt.Errorf("failed to delete notice: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	ns.logger.Info("Notice deleted", gecho.Field("id", id))
	return nil
}

type noticeFields struct {
	title   string
	content string
	start   *time.Time
	end     *time.Time
}

// noticeFields validates a request. Empty dates are stored as NULL; a bare
// end date covers that whole day.
func (ns *NoticeService) noticeFields(req *structs.NoticeRequest) (*noticeFields, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, lib.NewUserError(msgNoticeFieldsRequired)
	}

	start, err := ParseNoticeDate(req.StartDate, false, ns.location)
	if err != nil {
		return nil, lib.NewUserError("시작일 형식이 올바르지 않습니다.")
	}

	end, err := ParseNoticeDate(req.EndDate, true, ns.location)
	if err != nil {
		return nil, lib.NewUserError("종료일 형식이 올바르지 않습니다.")
	}

	return &noticeFields{
		title:   strings.TrimSpace(req.Title),
		content: req.Content,
		start:   start,
		end:     end,
	}, nil
}

// ParseNoticeDate accepts "YYYY-MM-DD" or RFC 3339. Blank input is nil.
func ParseNoticeDate(raw string, endOfDay bool, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	day, err := time.ParseInLocation(lib.DateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}

// RenderNoticeHTML converts notice markdown to sanitized HTML for the popup
func RenderNoticeHTML(content string) string {
	var buf bytes.Buffer
	if err := noticeMarkdown.Convert([]byte(content), &buf); err != nil {
		return noticePolicy.Sanitize(content)
	}
	return string(noticePolicy.SanitizeBytes(buf.Bytes()))
}

func ToNoticeView(n *tables.Notice) structs.NoticeView {
	return structs.NoticeView{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		ContentHTML: RenderNoticeHTML(n.Content),
		IsActive:    n.IsActive,
		StartDate:   n.StartDate,
		EndDate:     n.EndDate,
		CreatedAt:   n.CreatedAt,
	}
}
