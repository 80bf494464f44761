package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/billing"
	"artison-api/internal/domain/creators"
	"artison-api/internal/domain/users"

	"gorm.io/gorm"
)

const (
	recentCreatorSupports   = 5
	recentSupporterSupports = 10
)

type aggregate struct {
	Count int64
	Total int64
}

// CreatorStats aggregates the completed supports a creator received.
// TotalSupporters counts supports, not distinct supporters.
func (s *Service) CreatorStats(ctx context.Context, creatorID string) (SupportStats, error) {
	db := s.db.WithContext(ctx)

	var agg aggregate
	if err := db.Model(&billing.Support{}).
		Select("COUNT(id) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("creator_id = ? AND payment_status = ?", creatorID, billing.SupportCompleted).
		Scan(&agg).Error; err != nil {
		return SupportStats{}, fmt.Errorf("aggregate supports: %w", err)
	}

	var recent []billing.Support
	if err := db.Where("creator_id = ? AND payment_status = ?", creatorID, billing.SupportCompleted).
		Order("completed_at DESC").
		Limit(recentCreatorSupports).
		Find(&recent).Error; err != nil {
		return SupportStats{}, fmt.Errorf("recent supports: %w", err)
	}

	withUsers, err := s.attachUsers(ctx, recent)
	if err != nil {
		return SupportStats{}, err
	}
	return SupportStats{
		TotalSupporters: agg.Count,
		TotalAmount:     agg.Total,
		RecentSupports:  withUsers,
	}, nil
}

func (s *Service) ReceivedSummary(ctx context.Context, user users.User) (CreatorSupportSummary, error) {
	stats, err := s.CreatorStats(ctx, user.ID)
	if err != nil {
		return CreatorSupportSummary{}, err
	}
	return CreatorSupportSummary{
		TotalReceived:  stats.TotalAmount,
		SupporterCount: stats.TotalSupporters,
		RecentSupports: stats.RecentSupports,
	}, nil
}

func (s *Service) GivenSummary(ctx context.Context, user users.User) (SupporterSummary, error) {
	db := s.db.WithContext(ctx)

	var agg aggregate
	if err := db.Model(&billing.Support{}).
		Select("COUNT(DISTINCT creator_id) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("supporter_id = ? AND payment_status = ?", user.ID, billing.SupportCompleted).
		Scan(&agg).Error; err != nil {
		return SupporterSummary{}, fmt.Errorf("aggregate given supports: %w", err)
	}

	var recent []billing.Support
	if err := db.Where("supporter_id = ? AND payment_status = ?", user.ID, billing.SupportCompleted).
		Order("completed_at DESC").
		Limit(recentSupporterSupports).
		Find(&recent).Error; err != nil {
		return SupporterSummary{}, fmt.Errorf("recent given supports: %w", err)
	}

	withUsers, err := s.attachUsers(ctx, recent)
	if err != nil {
		return SupporterSummary{}, err
	}
	return SupporterSummary{
		TotalGiven:     agg.Total,
		CreatorCount:   agg.Count,
		RecentSupports: withUsers,
	}, nil
}

// PublicStats serves a creator's stats by username through the stats cache.
func (s *Service) PublicStats(ctx context.Context, username string) (SupportStats, error) {
	var creator users.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupportStats{}, apierr.New(apierr.ErrNotFound, "Creator not found")
		}
		return SupportStats{}, fmt.Errorf("load creator: %w", err)
	}

	if cached, ok := s.cache.Get(ctx, creator.ID); ok {
		var stats SupportStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return stats, nil
		}
		s.logger.Warn("discarding unreadable cached stats", "creator_id", creator.ID)
	}

	stats, err := s.CreatorStats(ctx, creator.ID)
	if err != nil {
		return SupportStats{}, err
	}
	if b, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, creator.ID, b)
	}
	return stats, nil
}

// attachUsers adds usernames and the creator display name to each support.
func (s *Service) attachUsers(ctx context.Context, supports []billing.Support) ([]SupportWithUsers, error) {
	out := make([]SupportWithUsers, 0, len(supports))
	if len(supports) == 0 {
		return out, nil
	}

	userIDs := make([]string, 0, len(supports)*2)
	creatorIDs := make([]string, 0, len(supports))
	for _, sp := range supports {
		userIDs = append(userIDs, sp.SupporterID, sp.CreatorID)
		creatorIDs = append(creatorIDs, sp.CreatorID)
	}

	db := s.db.WithContext(ctx)

	var us []users.User
	if err := db.Select("id", "username").Where("id IN ?", userIDs).Find(&us).Error; err != nil {
		return nil, fmt.Errorf("load support users: %w", err)
	}
	usernames := make(map[string]string, len(us))
	for _, u := range us {
		usernames[u.ID] = u.Username
	}

	var profiles []creators.CreatorProfile
	if err := db.Select("user_id", "display_name").Where("user_id IN ?", creatorIDs).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("load creator profiles: %w", err)
	}
	displayNames := make(map[string]string, len(profiles))
	for _, p := range profiles {
		displayNames[p.UserID] = p.DisplayName
	}

	for _, sp := range supports {
		out = append(out, SupportWithUsers{
			Support:            sp,
			SupporterUsername:  usernames[sp.SupporterID],
			CreatorUsername:    usernames[sp.CreatorID],
			CreatorDisplayName: displayNames[sp.CreatorID],
		})
	}
	return out, nil
}
