package service

import (
	"context"

	"picstream/internal/models"
	"picstream/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService struct {
	chatRepo repository.ChatRepository
}

type CreateMessageInput struct {
	Src     primitive.ObjectID `json:"src"`
	Dst     primitive.ObjectID `json:"dst"`
	Author  string             `json:"author"`
	Message string             `json:"message"`
}

func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

// GetConversation returns every message between the two users, in both
// directions. Argument order does not matter.
func (s *ChatService) GetConversation(ctx context.Context, a, b primitive.ObjectID) ([]models.ChatMessage, error) {
	messages, err := s.chatRepo.FindBetween(ctx, a, b)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return messages, nil
}

// ListConversations returns every message the user is a party to, as sender
// or recipient.
func (s *ChatService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ChatMessage, error) {
	messages, err := s.chatRepo.FindConversations(ctx, userID)
	if err != nil {
		return nil, models.NewUnprocessableError(err)
	}
	return messages, nil
}

func (s *ChatService) SaveMessage(ctx context.Context, in CreateMessageInput) (*models.ChatMessage, error) {
	if in.Src.IsZero() || in.Dst.IsZero() {
		return nil, models.NewValidationError("src and dst are required")
	}
	if in.Message == "" {
		return nil, models.NewValidationError("message is required")
	}

	msg := &models.ChatMessage{
		Src:     in.Src,
		Dst:     in.Dst,
		Author:  in.Author,
		Message: in.Message,
	}

	if err := s.chatRepo.Insert(ctx, msg); err != nil {
		return nil, translateWriteError(err)
	}
	return msg, nil
}
