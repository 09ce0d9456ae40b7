package service

import (
	"context"
	"errors"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"
	"Orbit_Social/internal/repository/mysql"
)

var ErrContentRequired = errs.Validation("content required")

type PostService struct {
	repo    *mysql.PostRepository
	members *mysql.CommunityMemberRepository
	comms   *mysql.CommunityRepository
	perms   permission.Table
}

func NewPostService(
	repo *mysql.PostRepository,
	members *mysql.CommunityMemberRepository,
	comms *mysql.CommunityRepository,
	perms permission.Table,
) *PostService {
	return &PostService{repo: repo, members: members, comms: comms, perms: perms}
}

// CreatePost publishes into a community; only members may post.
func (s *PostService) CreatePost(ctx context.Context, authorID, communityID uint64, content, mediaURL string) (*model.Post, error) {
	if content == "" {
		return nil, ErrContentRequired
	}
	if _, err := s.comms.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, communityID, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    authorID,
		Content:     content,
		MediaURL:    mediaURL,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

func (s *PostService) ListCommunityPosts(ctx context.Context, communityID, cursor uint64, limit int) ([]model.Post, uint64, error) {
	if _, err := s.comms.FindByID(ctx, communityID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByCommunityCursor(ctx, communityID, cursor, limit)
}

// ListCommunityPostsPage is the page/offset variant for shallow browsing;
// deep pages should use the cursor form.
func (s *PostService) ListCommunityPostsPage(ctx context.Context, communityID uint64, page, size int) ([]model.Post, error) {
	if _, err := s.comms.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListByCommunity(ctx, communityID, (page-1)*size, size)
}

// DeletePost allows the author to delete their own post; anyone else needs
// the delete-posts permission in the post's community.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint64) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		role, err := s.members.GetRole(ctx, post.CommunityID, actorID)
		if err != nil {
			if errors.Is(err, mysql.ErrMemberNotFound) {
				return ErrNotMember
			}
			return err
		}
		if !s.perms.Has(role, permission.CanDeletePosts) {
			return ErrRoleInsufficient
		}
	}
	return s.repo.Delete(ctx, postID)
}
