package models

import "time"

// WaitlistEntry maps a row of the waitlist table. ID and timestamps are
// assigned by the database.
type WaitlistEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex:waitlist_email_key"`
	FirstName  string    `gorm:"type:varchar(100);not null"`
	LastName   string    `gorm:"type:varchar(100);not null"`
	Refinance  bool      `gorm:"not null;default:false"`
	NewLoan    bool      `gorm:"not null;default:false"`
	HYSA       bool      `gorm:"column:hysa;not null;default:false"`
	Automation bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoUpdateTime:false"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
