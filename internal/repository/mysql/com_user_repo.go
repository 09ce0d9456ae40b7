package mysql

import (
	"context"
	"errors"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyMember  = errs.Conflict("already a member")
	ErrMemberNotFound = errs.NotFound("member not found")
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

func NewCommunityMemberRepository(db *gorm.DB) *CommunityMemberRepository {
	return &CommunityMemberRepository{DB: db}
}

// Join inserts the membership; a second insert for the same
// (community, user) pair reports ErrAlreadyMember.
func (r *CommunityMemberRepository) Join(ctx context.Context, member *model.CommunityMember) error {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyMember
	}
	return nil
}

// Leave deletes the membership; leaving twice is a no-op.
func (r *CommunityMemberRepository) Leave(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityMember{}).Error
}

func (r *CommunityMemberRepository) GetRole(ctx context.Context, communityID, userID uint64) (permission.Role, error) {
	var member model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrMemberNotFound
	}
	if err != nil {
		return "", err
	}
	return permission.Role(member.Role), nil
}

func (r *CommunityMemberRepository) SetRole(ctx context.Context, communityID, userID uint64, role permission.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member model.CommunityMember
		err := locked(tx).Where("community_id = ? AND user_id = ?", communityID, userID).First(&member).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		return tx.Model(&model.CommunityMember{}).Where("id = ?", member.ID).
			Update("role", string(role)).Error
	})
}

// Remove deletes the target's membership; reports whether a row was removed.
func (r *CommunityMemberRepository) Remove(ctx context.Context, communityID, userID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityMember{})
	return res.RowsAffected > 0, res.Error
}

func (r *CommunityMemberRepository) IsMember(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityMemberRepository) List(ctx context.Context, communityID uint64) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Find(&list).Error
	return list, err
}

// CountByRole returns member counts per role for the stats view.
func (r *CommunityMemberRepository) CountByRole(ctx context.Context, communityID uint64) (map[permission.Role]int64, error) {
	type roleCount struct {
		Role  string
		Count int64
	}
	var rows []roleCount
	err := r.DB.WithContext(ctx).Model(&model.CommunityMember{}).
		Select("role, COUNT(*) AS count").
		Where("community_id = ?", communityID).
		Group("role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[permission.Role]int64, len(rows))
	for _, rc := range rows {
		out[permission.Role(rc.Role)] = rc.Count
	}
	return out, nil
}

// DeleteAllForUser removes every membership of userID. Runs inside the
// caller's transaction (account deletion).
func (r *CommunityMemberRepository) DeleteAllForUser(tx *gorm.DB, userID uint64) error {
	return tx.Where("user_id = ?", userID).Delete(&model.CommunityMember{}).Error
}
