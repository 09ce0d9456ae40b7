package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outbox event types for follow state changes.
const (
	EventFollowRequested = "follow.requested"
	EventFollowAccepted  = "follow.accepted"
	EventFollowRejected  = "follow.rejected"
	EventFollowRemoved   = "follow.removed"
)

var (
	ErrDuplicateFollow       = errs.Conflict("follow request already exists")
	ErrFollowRequestNotFound = errs.NotFound("follow request not found")
)

type FollowRepository struct {
	DB *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository { return &FollowRepository{DB: db} }

// Request creates a pending edge follower->following. A previously rejected
// edge is reset to pending. If the opposite direction already holds a pending
// request, both edges become accepted instead (mutual connection in one
// step). Returns the resulting status of the caller's edge.
func (r *FollowRepository) Request(ctx context.Context, followerID, followingID uint64) (model.FollowStatus, error) {
	var status model.FollowStatus
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var own model.Follow
		err := locked(tx).Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&own).Error
		switch {
		case err == nil:
			if own.Status != model.FollowStatusRejected {
				return ErrDuplicateFollow
			}
			// a rejected request may be re-issued
			if err := tx.Model(&model.Follow{}).Where("id = ?", own.ID).
				Update("status", model.FollowStatusPending).Error; err != nil {
				return err
			}
			status = model.FollowStatusPending
			return r.insertOutbox(tx, EventFollowRequested, followerID, followingID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no edge yet
		default:
			return err
		}

		// a pending request in the opposite direction means the caller is
		// following back: accept both directions at once
		var reverse model.Follow
		err = locked(tx).Where("follower_id = ? AND following_id = ?", followingID, followerID).First(&reverse).Error
		if err == nil && reverse.Status == model.FollowStatusPending {
			if err := tx.Model(&model.Follow{}).Where("id = ?", reverse.ID).
				Update("status", model.FollowStatusAccepted).Error; err != nil {
				return err
			}
			if err := tx.Create(&model.Follow{
				FollowerID:  followerID,
				FollowingID: followingID,
				Status:      model.FollowStatusAccepted,
			}).Error; err != nil {
				return err
			}
			status = model.FollowStatusAccepted
			return r.insertOutbox(tx, EventFollowAccepted, followingID, followerID)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&model.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			Status:      model.FollowStatusPending,
		}).Error; err != nil {
			return err
		}
		status = model.FollowStatusPending
		return r.insertOutbox(tx, EventFollowRequested, followerID, followingID)
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// Accept flips the pending edge requester->target to accepted and upserts the
// reciprocal accepted edge in the same transaction, so a half-mutual state is
// never visible.
func (r *FollowRepository) Accept(ctx context.Context, requesterID, targetID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var edge model.Follow
		err := locked(tx).Where("follower_id = ? AND following_id = ? AND status = ?",
			requesterID, targetID, model.FollowStatusPending).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFollowRequestNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Follow{}).Where("id = ?", edge.ID).
			Update("status", model.FollowStatusAccepted).Error; err != nil {
			return err
		}
		rec := model.Follow{FollowerID: targetID, FollowingID: requesterID, Status: model.FollowStatusAccepted}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoUpdates: clause.Assignments(map[string]any{"status": model.FollowStatusAccepted}),
		}).Create(&rec).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, EventFollowAccepted, requesterID, targetID)
	})
}

// Reject marks the pending edge requester->target rejected. No reciprocal
// edge is touched.
func (r *FollowRepository) Reject(ctx context.Context, requesterID, targetID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var edge model.Follow
		err := locked(tx).Where("follower_id = ? AND following_id = ? AND status = ?",
			requesterID, targetID, model.FollowStatusPending).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFollowRequestNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Follow{}).Where("id = ?", edge.ID).
			Update("status", model.FollowStatusRejected).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, EventFollowRejected, requesterID, targetID)
	})
}

// Unfollow deletes the edge actor->other regardless of status and, when the
// reverse edge is accepted, deletes it too: mutuality is never left dangling
// on one side. Unfollowing a missing edge is a no-op.
func (r *FollowRepository) Unfollow(ctx context.Context, actorID, otherID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", actorID, otherID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		if err := tx.Where("follower_id = ? AND following_id = ? AND status = ?",
			otherID, actorID, model.FollowStatusAccepted).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		return r.insertOutbox(tx, EventFollowRemoved, actorID, otherID)
	})
	return changed, err
}

// IsFollowing reports whether an accepted edge follower->following exists.
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?", followerID, followingID, model.FollowStatusAccepted).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowing returns accepted outbound edges for userID, newest first.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.list(ctx, "follower_id = ? AND status = ?", userID, model.FollowStatusAccepted, cursor, limit)
}

// ListFollowers returns accepted inbound edges for userID.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.list(ctx, "following_id = ? AND status = ?", userID, model.FollowStatusAccepted, cursor, limit)
}

// ListPendingIncoming returns requests awaiting userID's decision.
func (r *FollowRepository) ListPendingIncoming(ctx context.Context, userID, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.list(ctx, "following_id = ? AND status = ?", userID, model.FollowStatusPending, cursor, limit)
}

// ListPendingOutgoing returns requests userID has sent that are still open.
func (r *FollowRepository) ListPendingOutgoing(ctx context.Context, userID, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.list(ctx, "follower_id = ? AND status = ?", userID, model.FollowStatusPending, cursor, limit)
}

func (r *FollowRepository) list(ctx context.Context, cond string, userID uint64, status model.FollowStatus, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).Where(cond, userID, status)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	// limit+1 so the caller knows whether another page exists
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// DeleteAllForUser removes every edge referencing userID. Runs inside the
// caller's transaction (account deletion).
func (r *FollowRepository) DeleteAllForUser(tx *gorm.DB, userID uint64) error {
	return tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&model.Follow{}).Error
}

func (r *FollowRepository) insertOutbox(tx *gorm.DB, event string, follower, following uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"follower":   follower,
		"following":  following,
	})
	ob := &model.SocialOutbox{
		EventType: event,
		Follower:  follower,
		Following: following,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}
