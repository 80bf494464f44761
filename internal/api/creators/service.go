package creators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/creators"
	"artison-api/internal/domain/users"

	"gorm.io/gorm"
)

var (
	errProfileNotFound = apierr.New(apierr.ErrNotFound, "Creator profile not found")
	errLinkNotFound    = apierr.New(apierr.ErrNotFound, "Platform link not found")
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateProfile creates the single profile of a creator.
func (s *Service) CreateProfile(ctx context.Context, userID string, in ProfileInput) (ProfileView, error) {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&creators.CreatorProfile{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return ProfileView{}, fmt.Errorf("check profile: %w", err)
	}
	if existing > 0 {
		return ProfileView{}, apierr.New(apierr.ErrConflict, "Creator profile already exists")
	}

	var user users.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileView{}, apierr.New(apierr.ErrForbidden, "Only creators can create profiles")
		}
		return ProfileView{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsCreator {
		return ProfileView{}, apierr.New(apierr.ErrForbidden, "Only creators can create profiles")
	}

	profile := creators.CreatorProfile{
		UserID:          userID,
		DisplayName:     in.DisplayName,
		Bio:             in.Bio,
		ProfileImageURL: in.ProfileImageURL,
		HeaderImageURL:  in.HeaderImageURL,
	}
	if err := db.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ProfileView{}, apierr.New(apierr.ErrConflict, "Creator profile already exists")
		}
		return ProfileView{}, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("creator profile created", "user_id", userID, "profile_id", profile.ID)
	return ProfileView{CreatorProfile: profile, PlatformLinks: []creators.PlatformLink{}}, nil
}

func (s *Service) GetProfileByUserID(ctx context.Context, userID string) (ProfileView, error) {
	profile, err := s.profileOf(s.db.WithContext(ctx), userID)
	if err != nil {
		return ProfileView{}, err
	}
	links, err := s.linksOf(ctx, profile.ID)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{CreatorProfile: profile, PlatformLinks: links}, nil
}

// GetPublicProfile looks a creator up by username.
func (s *Service) GetPublicProfile(ctx context.Context, username string) (ProfileView, error) {
	var user users.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileView{}, apierr.New(apierr.ErrNotFound, "User not found")
		}
		return ProfileView{}, fmt.Errorf("load user: %w", err)
	}

	view, err := s.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return ProfileView{}, err
	}
	view.Username = user.Username
	return view, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, upd creators.ProfileUpdate) (ProfileView, error) {
	db := s.db.WithContext(ctx)

	profile, err := s.profileOf(db, userID)
	if err != nil {
		return ProfileView{}, err
	}
	if upd.Apply(&profile) {
		if err := db.Save(&profile).Error; err != nil {
			return ProfileView{}, fmt.Errorf("update profile: %w", err)
		}
	}

	links, err := s.linksOf(ctx, profile.ID)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{CreatorProfile: profile, PlatformLinks: links}, nil
}

func (s *Service) AddLink(ctx context.Context, userID string, in LinkInput) (creators.PlatformLink, error) {
	db := s.db.WithContext(ctx)

	profile, err := s.profileOf(db, userID)
	if err != nil {
		return creators.PlatformLink{}, err
	}

	link := creators.PlatformLink{
		CreatorProfileID: profile.ID,
		PlatformName:     in.PlatformName,
		PlatformURL:      in.PlatformURL,
		DisplayOrder:     in.DisplayOrder,
	}
	if err := db.Create(&link).Error; err != nil {
		return creators.PlatformLink{}, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

func (s *Service) UpdateLink(ctx context.Context, userID, linkID string, upd creators.LinkUpdate) (creators.PlatformLink, error) {
	db := s.db.WithContext(ctx)

	link, err := s.ownedLink(db, userID, linkID)
	if err != nil {
		return creators.PlatformLink{}, err
	}
	if upd.Apply(&link) {
		if err := db.Save(&link).Error; err != nil {
			return creators.PlatformLink{}, fmt.Errorf("update link: %w", err)
		}
	}
	return link, nil
}

func (s *Service) DeleteLink(ctx context.Context, userID, linkID string) error {
	db := s.db.WithContext(ctx)

	link, err := s.ownedLink(db, userID, linkID)
	if err != nil {
		return err
	}
	if err := db.Delete(&link).Error; err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

// ReorderLinks sets each link's display order to its position in ids. Ids
// that are not links of the caller's profile are skipped and left out of the
// result.
func (s *Service) ReorderLinks(ctx context.Context, userID string, ids []string) ([]creators.PlatformLink, error) {
	var ordered []creators.PlatformLink

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profileOf(tx, userID)
		if err != nil {
			return err
		}

		var links []creators.PlatformLink
		if err := tx.Where("creator_profile_id = ?", profile.ID).Find(&links).Error; err != nil {
			return err
		}
		byID := make(map[string]creators.PlatformLink, len(links))
		for _, l := range links {
			byID[l.ID] = l
		}

		ordered = make([]creators.PlatformLink, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			link, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true

			if err := tx.Model(&creators.PlatformLink{}).
				Where("id = ? AND creator_profile_id = ?", id, profile.ID).
				Update("display_order", i).Error; err != nil {
				return err
			}
			link.DisplayOrder = i
			ordered = append(ordered, link)
		}
		return nil
	})
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("reorder links: %w", err)
	}
	return ordered, nil
}

func (s *Service) profileOf(db *gorm.DB, userID string) (creators.CreatorProfile, error) {
	var profile creators.CreatorProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return creators.CreatorProfile{}, errProfileNotFound
		}
		return creators.CreatorProfile{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (s *Service) ownedLink(db *gorm.DB, userID, linkID string) (creators.PlatformLink, error) {
	profile, err := s.profileOf(db, userID)
	if err != nil {
		return creators.PlatformLink{}, err
	}

	var link creators.PlatformLink
	err = db.Where("id = ? AND creator_profile_id = ?", linkID, profile.ID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return creators.PlatformLink{}, errLinkNotFound
		}
		return creators.PlatformLink{}, fmt.Errorf("load link: %w", err)
	}
	return link, nil
}

func (s *Service) linksOf(ctx context.Context, profileID string) ([]creators.PlatformLink, error) {
	links := []creators.PlatformLink{}
	if err := s.db.WithContext(ctx).
		Where("creator_profile_id = ?", profileID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	return links, nil
}
