package creators

// ProfileUpdate carries the fields present in a partial update request.
// A nil field is left untouched.
type ProfileUpdate struct {
	DisplayName     *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
	HeaderImageURL  *string `json:"header_image_url" binding:"omitempty,max=500"`
}

// Apply copies every set field onto p and reports whether anything changed.
func (u ProfileUpdate) Apply(p *CreatorProfile) bool {
	changed := false
	if u.DisplayName != nil && *u.DisplayName != p.DisplayName {
		p.DisplayName = *u.DisplayName
		changed = true
	}
	if u.Bio != nil {
		p.Bio = copyString(u.Bio)
		changed = true
	}
	if u.ProfileImageURL != nil {
		p.ProfileImageURL = copyString(u.ProfileImageURL)
		changed = true
	}
	if u.HeaderImageURL != nil {
		p.HeaderImageURL = copyString(u.HeaderImageURL)
		changed = true
	}
	return changed
}

type LinkUpdate struct {
	PlatformName *string `json:"platform_name" binding:"omitempty,min=1,max=50"`
	PlatformURL  *string `json:"platform_url" binding:"omitempty,min=1,max=500"`
	DisplayOrder *int    `json:"display_order" binding:"omitempty,min=0"`
}

func (u LinkUpdate) Apply(l *PlatformLink) bool {
	changed := false
	if u.PlatformName != nil && *u.PlatformName != l.PlatformName {
		l.PlatformName = *u.PlatformName
		changed = true
	}
	if u.PlatformURL != nil && *u.PlatformURL != l.PlatformURL {
		l.PlatformURL = *u.PlatformURL
		changed = true
	}
	if u.DisplayOrder != nil && *u.DisplayOrder != l.DisplayOrder {
		l.DisplayOrder = *u.DisplayOrder
		changed = true
	}
	return changed
}

func copyString(s *string) *string {
	v := *s
	return &v
}
