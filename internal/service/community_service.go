package service

import (
	"context"
	"errors"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"
	"Orbit_Social/internal/repository/mysql"
)

var (
	ErrNameRequired     = errs.Validation("community name required")
	ErrNameTaken        = errs.Conflict("community name already exists")
	ErrInvalidRole      = errs.Validation("unknown role")
	ErrInvalidPrivacy   = errs.Validation("unknown privacy type")
	ErrNotMember        = errs.Forbidden("not a member of this community")
	ErrRoleInsufficient = errs.Forbidden("role does not permit this action")
	ErrPrivateCommunity = errs.Forbidden("community is private")
)

// CommunityUpdate carries the optional fields of an update request.
type CommunityUpdate struct {
	Name        *string
	Description *string
	Privacy     *string
}

type CommunityService struct {
	repo    *mysql.CommunityRepository
	members *mysql.CommunityMemberRepository
	users   *mysql.UserRepository
	stats   *mysql.StatsRepository
	perms   permission.Table
}

func NewCommunityService(
	repo *mysql.CommunityRepository,
	members *mysql.CommunityMemberRepository,
	users *mysql.UserRepository,
	stats *mysql.StatsRepository,
	perms permission.Table,
) *CommunityService {
	return &CommunityService{repo: repo, members: members, users: users, stats: stats, perms: perms}
}

// requireRole is the single authorization gate: every mutating operation
// resolves the actor's role and consults the permission table here. Role
// strings are never compared directly anywhere else.
func (s *CommunityService) requireRole(ctx context.Context, communityID, actorID uint64, perm permission.Permission) error {
	role, err := s.members.GetRole(ctx, communityID, actorID)
	if err != nil {
		if errors.Is(err, mysql.ErrMemberNotFound) {
			return ErrNotMember
		}
		return err
	}
	if !s.perms.Has(role, perm) {
		return ErrRoleInsufficient
	}
	return nil
}

// CreateCommunity makes the record and seats the creator as admin.
func (s *CommunityService) CreateCommunity(ctx context.Context, creatorID uint64, name, description string, privacy model.CommunityPrivacy) (*model.Community, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if privacy == "" {
		privacy = model.PrivacyPublic
	}
	if privacy != model.PrivacyPublic && privacy != model.PrivacyPrivate {
		return nil, ErrInvalidPrivacy
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, mysql.ErrCommunityNotFound) {
		return nil, err
	}

	community := &model.Community{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		Privacy:     privacy,
	}
	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, communityID uint64) (*model.Community, error) {
	return s.repo.FindByID(ctx, communityID)
}

// JoinCommunity is the self-service path; private communities require an
// admin to add the member instead.
func (s *CommunityService) JoinCommunity(ctx context.Context, communityID, userID uint64) error {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if community.Privacy == model.PrivacyPrivate {
		return ErrPrivateCommunity
	}
	return s.members.Join(ctx, &model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        string(permission.RoleMember),
	})
}

// AddMember seats targetID as a member; this is the invitation path for
// private communities, so it is admin-gated.
func (s *CommunityService) AddMember(ctx context.Context, communityID, actorID, targetID uint64) error {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, communityID, actorID, permission.CanManageRoles); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return err
	}
	return s.members.Join(ctx, &model.CommunityMember{
		CommunityID: communityID,
		UserID:      targetID,
		Role:        string(permission.RoleMember),
	})
}

func (s *CommunityService) LeaveCommunity(ctx context.Context, communityID, userID uint64) error {
	return s.members.Leave(ctx, communityID, userID)
}

func (s *CommunityService) UpdateCommunity(ctx context.Context, communityID, actorID uint64, update CommunityUpdate) (*model.Community, error) {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, communityID, actorID, permission.CanEditCommunity); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.Name != nil && *update.Name != community.Name {
		if *update.Name == "" {
			return nil, ErrNameRequired
		}
		if _, err := s.repo.FindByName(ctx, *update.Name); err == nil {
			return nil, ErrNameTaken
		} else if !errors.Is(err, mysql.ErrCommunityNotFound) {
			return nil, err
		}
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Privacy != nil {
		p := model.CommunityPrivacy(*update.Privacy)
		if p != model.PrivacyPublic && p != model.PrivacyPrivate {
			return nil, ErrInvalidPrivacy
		}
		fields["privacy"] = string(p)
	}
	if len(fields) > 0 {
		if err := s.repo.Update(ctx, communityID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, communityID)
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, communityID, actorID uint64) error {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, communityID, actorID, permission.CanEditCommunity); err != nil {
		return err
	}
	return s.repo.Delete(ctx, communityID)
}

// SetMemberRole changes the target's role. Admins can reassign anyone,
// including the creator; the original behavior does not protect the creator.
func (s *CommunityService) SetMemberRole(ctx context.Context, communityID, actorID, targetID uint64, role permission.Role) error {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, communityID, actorID, permission.CanManageRoles); err != nil {
		return err
	}
	if !permission.Valid(role) {
		return ErrInvalidRole
	}
	return s.members.SetRole(ctx, communityID, targetID, role)
}

func (s *CommunityService) RemoveMember(ctx context.Context, communityID, actorID, targetID uint64) error {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, communityID, actorID, permission.CanRemoveMembers); err != nil {
		return err
	}
	removed, err := s.members.Remove(ctx, communityID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return mysql.ErrMemberNotFound
	}
	return nil
}

func (s *CommunityService) ListMembers(ctx context.Context, communityID uint64) ([]model.CommunityMember, error) {
	if _, err := s.repo.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	return s.members.List(ctx, communityID)
}

func (s *CommunityService) SearchCommunities(ctx context.Context, query string, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	if query == "" {
		return s.repo.List(ctx, offset, size)
	}
	return s.repo.SearchByName(ctx, query, offset, size)
}

func (s *CommunityService) CommunityStats(ctx context.Context, communityID uint64) (*mysql.CommunityStats, error) {
	return s.stats.CommunityStats(ctx, communityID)
}
