package creators

import (
	"time"

	"artison-api/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatorProfile is the public page of a creator. One per user.
type CreatorProfile struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_creator_profiles_user_id" json:"user_id"`
	User            *users.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	DisplayName     string      `gorm:"type:varchar(100);not null" json:"display_name"`
	Bio             *string     `gorm:"type:text" json:"bio"`
	ProfileImageURL *string     `gorm:"type:varchar(500)" json:"profile_image_url"`
	HeaderImageURL  *string     `gorm:"type:varchar(500)" json:"header_image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlatformLink points at a creator's presence elsewhere. DisplayOrder is
// only relatively ordered, not contiguous.
type PlatformLink struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatorProfileID string          `gorm:"type:varchar(36);not null;index:idx_platform_links_profile" json:"creator_profile_id"`
	CreatorProfile   *CreatorProfile `gorm:"foreignKey:CreatorProfileID;constraint:OnDelete:CASCADE" json:"-"`
	PlatformName     string          `gorm:"type:varchar(50);not null" json:"platform_name"`
	PlatformURL      string          `gorm:"type:varchar(500);not null" json:"platform_url"`
	DisplayOrder     int             `gorm:"not null;default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *CreatorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (l *PlatformLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
