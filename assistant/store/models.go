package store

import (
	"time"

	"github.com/uptrace/bun"
)

type LeadStatus string

const (
	LeadActive LeadStatus = "active"
	LeadWon    LeadStatus = "won"
	LeadLost   LeadStatus = "lost"
)

// Terminal reports whether the status permits no further transitions.
func (s LeadStatus) Terminal() bool {
	return s == LeadWon || s == LeadLost
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64      `bun:"id,pk,autoincrement" json:"id"`
	TelegramID int64      `bun:"telegram_id,notnull,unique" json:"telegram_id"`
	Name       string     `bun:"name,notnull" json:"name"`
	OOOUntil   *time.Time `bun:"ooo_until,nullzero" json:"ooo_until,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Lead struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64      `bun:"user_id,notnull" json:"user_id"`
	Name         string     `bun:"name,notnull" json:"name"`
	Company      string     `bun:"company,notnull" json:"company"`
	NextSteps    string     `bun:"next_steps,notnull" json:"next_steps"`
	FollowUpDate *time.Time `bun:"follow_up_date,nullzero" json:"follow_up_date,omitempty"`
	Status       LeadStatus `bun:"status,notnull,default:'active'" json:"status"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// LeadPatch is a typed partial update. Only non-nil fields are written; absent
// fields are left untouched, never cleared.
type LeadPatch struct {
	NextSteps    *string
	FollowUpDate *time.Time
}

// Empty reports whether the patch carries no field at all.
func (p LeadPatch) Empty() bool {
	return p.NextSteps == nil && p.FollowUpDate == nil
}
