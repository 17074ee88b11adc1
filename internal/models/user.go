package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. The ID is stable for the account's lifetime;
// display fields are mutable via profile edit. Accounts are soft-deleted.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username    string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	DisplayName string         `gorm:"size:128" json:"display_name"`
	AvatarURL   string         `gorm:"size:512" json:"avatar_url"`
	Password    string         `gorm:"not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
