package models

import "time"

// WaitlistEntry is one person on the waitlist. Email is stored lowercased and
// is unique; CreatedAt orders the queue and is never changed after insert.
type WaitlistEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:254;not null;uniqueIndex:idx_waitlist_entries_email" json:"email"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Role           Role      `gorm:"size:10;not null;index" json:"role"`
	Source         Source    `gorm:"size:50" json:"source,omitempty"`
	IsEarlyAdopter bool      `gorm:"not null;index" json:"is_early_adopter"`
	IPAddress      string    `gorm:"size:45" json:"-"`
	IsInvited      bool      `gorm:"not null" json:"is_invited"`
	Notes          string    `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

func (e *WaitlistEntry) IsCoach() bool {
	return e.Role == RoleCoach
}
