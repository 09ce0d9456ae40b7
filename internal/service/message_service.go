package service

import (
	"context"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/repository/mysql"
)

var (
	ErrSelfMessage  = errs.Validation("cannot message yourself")
	ErrEmptyMessage = errs.Validation("message content required")
)

type MessageService struct {
	repo  *mysql.MessageRepository
	users *mysql.UserRepository
}

func NewMessageService(repo *mysql.MessageRepository, users *mysql.UserRepository) *MessageService {
	return &MessageService{repo: repo, users: users}
}

func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uint64, content, mediaURL string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}
	if content == "" && mediaURL == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		MediaURL:   mediaURL,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) Conversation(ctx context.Context, userID, otherID, cursor uint64, limit int) ([]model.Message, uint64, error) {
	return s.repo.Conversation(ctx, userID, otherID, cursor, limit)
}

// MarkConversationRead flips unread messages from otherID and reports how
// many were flipped.
func (s *MessageService) MarkConversationRead(ctx context.Context, readerID, otherID uint64) (int64, error) {
	return s.repo.MarkRead(ctx, readerID, otherID)
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
