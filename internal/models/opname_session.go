package models

import "time"

type SessionStatus string

const (
	SessionStatusOpen      SessionStatus = "OPEN"
	SessionStatusLocked    SessionStatus = "LOCKED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// OpnameSession: one physical stock count round. Created OPEN, may be
// locked against edits, and ends COMPLETED (terminal).
type OpnameSession struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Status      SessionStatus `gorm:"size:20;not null;default:'OPEN'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at"` // set only when status is COMPLETED
}
