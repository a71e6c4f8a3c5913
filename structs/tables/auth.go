package tables

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	tableName    struct{}   `bun:"table:users,alias:u"`
	Id           uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	Email        string     `json:"email" bun:"email,unique,notnull"`
	PasswordHash string     `json:"-" bun:"password_hash,notnull"`
	LastLogin    *time.Time `json:"last_login" bun:"last_login"`
	CreatedAt    time.Time  `json:"created_at" bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Profile gates admin access. Its id is the user's id.
type Profile struct {
	tableName struct{}  `bun:"table:profiles,alias:pr"`
	Id        uuid.UUID `json:"id" bun:"id,pk,type:uuid"`
	Role      string    `json:"role" bun:"role,notnull"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
