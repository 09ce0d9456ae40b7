package mysql

import (
	"context"
	"time"

	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"

	"gorm.io/gorm"
)

// CommunityStats aggregates membership and activity counts for one
// community.
type CommunityStats struct {
	CommunityID    uint64 `json:"community_id"`
	Name           string `json:"name"`
	TotalMembers   int64  `json:"total_members"`
	Admins         int64  `json:"admins"`
	Moderators     int64  `json:"moderators"`
	RegularMembers int64  `json:"regular_members"`
	TotalPosts     int64  `json:"total_posts"`
	PostsLast7Days int64  `json:"posts_last_7_days"`
}

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository { return &StatsRepository{DB: db} }

func (r *StatsRepository) CommunityStats(ctx context.Context, communityID uint64) (*CommunityStats, error) {
	communities := NewCommunityRepository(r.DB)
	community, err := communities.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	members := NewCommunityMemberRepository(r.DB)
	byRole, err := members.CountByRole(ctx, communityID)
	if err != nil {
		return nil, err
	}

	stats := &CommunityStats{
		CommunityID:    community.ID,
		Name:           community.Name,
		Admins:         byRole[permission.RoleAdmin],
		Moderators:     byRole[permission.RoleModerator],
		RegularMembers: byRole[permission.RoleMember],
	}
	for _, n := range byRole {
		stats.TotalMembers += n
	}

	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("community_id = ?", communityID).
		Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}
	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("community_id = ? AND created_at >= ?", communityID, weekAgo).
		Count(&stats.PostsLast7Days).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
