package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the hosted auth provider's user record; the ID is the
// provider-issued subject so no local credential material is stored.
type Profile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:profiles_email_key" json:"email"`
	FullName  *string   `gorm:"column:full_name" json:"full_name,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	AvatarURL *string   `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
