package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email          string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	Username       string `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username" json:"username"`
	HashedPassword string `gorm:"not null" json:"-"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
	IsCreator      bool   `gorm:"not null;default:false" json:"is_creator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
