package service

import (
	"context"
	"log"
	"time"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/pkg"
	"Orbit_Social/internal/repository/mysql"
)

var (
	ErrInvalidUserID = errs.Validation("invalid user id")
	ErrSelfFollow    = errs.Validation("cannot follow yourself")
)

type FollowService struct {
	repo  *mysql.FollowRepository
	users *mysql.UserRepository
}

func NewFollowService(repo *mysql.FollowRepository, users *mysql.UserRepository) *FollowService {
	return &FollowService{repo: repo, users: users}
}

// FollowUser files a follow request toward targetID and returns the
// resulting edge status: pending normally, accepted when the target already
// had an open request toward the requester.
func (s *FollowService) FollowUser(ctx context.Context, requesterID, targetID uint64) (model.FollowStatus, error) {
	if requesterID == 0 || targetID == 0 {
		return "", ErrInvalidUserID
	}
	if requesterID == targetID {
		return "", ErrSelfFollow
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return "", err
	}
	return s.repo.Request(ctx, requesterID, targetID)
}

// AcceptFollowRequest is invoked by the request's target; it makes the
// connection mutual.
func (s *FollowService) AcceptFollowRequest(ctx context.Context, requesterID, actorID uint64) error {
	if requesterID == 0 || actorID == 0 {
		return ErrInvalidUserID
	}
	return s.repo.Accept(ctx, requesterID, actorID)
}

func (s *FollowService) RejectFollowRequest(ctx context.Context, requesterID, actorID uint64) error {
	if requesterID == 0 || actorID == 0 {
		return ErrInvalidUserID
	}
	return s.repo.Reject(ctx, requesterID, actorID)
}

// UnfollowUser removes the actor's edge toward otherID; reports whether
// anything changed. Unfollowing someone not followed succeeds as a no-op.
func (s *FollowService) UnfollowUser(ctx context.Context, actorID, otherID uint64) (bool, error) {
	if actorID == 0 || otherID == 0 {
		return false, ErrInvalidUserID
	}
	return s.repo.Unfollow(ctx, actorID, otherID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if followerID == 0 || followingID == 0 {
		return false, ErrInvalidUserID
	}
	return s.repo.IsFollowing(ctx, followerID, followingID)
}

// GetFollowing returns the users userID follows (accepted edges only).
// Acceptance materializes both directions, so this is also the mutual
// connection list.
func (s *FollowService) GetFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]model.User, uint64, error) {
	rows, next, err := s.repo.ListFollowing(ctx, userID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.hydrate(ctx, rows, func(f model.Follow) uint64 { return f.FollowingID })
	return users, next, err
}

func (s *FollowService) GetFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]model.User, uint64, error) {
	rows, next, err := s.repo.ListFollowers(ctx, userID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.hydrate(ctx, rows, func(f model.Follow) uint64 { return f.FollowerID })
	return users, next, err
}

// ListPendingRequests returns the users waiting for userID's decision.
func (s *FollowService) ListPendingRequests(ctx context.Context, userID, cursor uint64, limit int) ([]model.User, uint64, error) {
	rows, next, err := s.repo.ListPendingIncoming(ctx, userID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.hydrate(ctx, rows, func(f model.Follow) uint64 { return f.FollowerID })
	return users, next, err
}

// ListSentRequests returns the users userID has open requests toward.
func (s *FollowService) ListSentRequests(ctx context.Context, userID, cursor uint64, limit int) ([]model.User, uint64, error) {
	rows, next, err := s.repo.ListPendingOutgoing(ctx, userID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.hydrate(ctx, rows, func(f model.Follow) uint64 { return f.FollowingID })
	return users, next, err
}

// hydrate resolves edges to user records, preserving edge order.
func (s *FollowService) hydrate(ctx context.Context, rows []model.Follow, pick func(model.Follow) uint64) ([]model.User, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, pick(f))
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Sender delivers one outbox row downstream.
type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer drains the follow-event outbox on a ticker and hands rows to
// the configured sender.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo *mysql.OutboxRepository, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender publishes outbox rows keyed by follower id, so events for one
// user stay ordered within a partition.
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.Follower), []byte(ob.Payload))
	}
}

// LogSender is the fallback when no broker is configured.
func LogSender(ctx context.Context, ob *model.SocialOutbox) error {
	log.Printf("OUTBOX SEND type=%s follower=%d following=%d payload=%s",
		ob.EventType, ob.Follower, ob.Following, ob.Payload)
	return nil
}
