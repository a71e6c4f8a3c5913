package tables

import "time"

type Notice struct {
	tableName struct{}   `bun:"table:notices,alias:n"`
	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	Title     string     `bun:"title,notnull" json:"title"`
	Content   string     `bun:"content,notnull" json:"content"`
	IsActive  bool       `bun:"is_active,notnull" json:"is_active"`
	StartDate *time.Time `bun:"start_date" json:"start_date"` // nil = unbounded
	EndDate   *time.Time `bun:"end_date" json:"end_date"`     // nil = unbounded
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
