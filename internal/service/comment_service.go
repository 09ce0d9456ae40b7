package service

import (
	"context"
	"errors"

	"Orbit_Social/internal/model"
	"Orbit_Social/internal/permission"
	"Orbit_Social/internal/repository/mysql"
)

type CommentService struct {
	repo    *mysql.CommentRepository
	posts   *mysql.PostRepository
	members *mysql.CommunityMemberRepository
	perms   permission.Table
}

func NewCommentService(
	repo *mysql.CommentRepository,
	posts *mysql.PostRepository,
	members *mysql.CommunityMemberRepository,
	perms permission.Table,
) *CommentService {
	return &CommentService{repo: repo, posts: posts, members: members, perms: perms}
}

// CreateComment requires membership in the post's community.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, ErrContentRequired
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	ok, err := s.members.IsMember(ctx, post.CommunityID, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint64, page, size int) ([]model.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.repo.ListByPost(ctx, postID, (page-1)*size, size)
}

// DeleteComment allows the author, or anyone holding the delete-comments
// permission in the comment's community.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint64) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		post, err := s.posts.FindByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		role, err := s.members.GetRole(ctx, post.CommunityID, actorID)
		if err != nil {
			if errors.Is(err, mysql.ErrMemberNotFound) {
				return ErrNotMember
			}
			return err
		}
		if !s.perms.Has(role, permission.CanDeleteComments) {
			return ErrRoleInsufficient
		}
	}
	return s.repo.Delete(ctx, commentID)
}
