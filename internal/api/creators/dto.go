package creators

import (
	"artison-api/internal/domain/creators"
)

type ProfileInput struct {
	DisplayName     string  `json:"display_name" binding:"required,min=1,max=100"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
	HeaderImageURL  *string `json:"header_image_url" binding:"omitempty,max=500"`
}

type LinkInput struct {
	PlatformName string `json:"platform_name" binding:"required,min=1,max=50"`
	PlatformURL  string `json:"platform_url" binding:"required,min=1,max=500"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
}

// ProfileView is a profile with its links in display order. Username is
// only set on the public view.
type ProfileView struct {
	creators.CreatorProfile
	Username      string                  `json:"username,omitempty"`
	PlatformLinks []creators.PlatformLink `json:"platform_links"`
}
