package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/store"
)

const (
	// DefaultHistoryLimit is applied when the caller does not specify one.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps a single page.
	MaxHistoryLimit = 200
)

// HistoryService handles conversation history and user lifecycle.
type HistoryService struct {
	store store.Store
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store store.Store) *HistoryService {
	return &HistoryService{store: store}
}

// GetHistory returns one page of a user's conversation history.
// Propagates store.ErrNotFound for unknown user IDs.
func (s *HistoryService) GetHistory(ctx context.Context, userID string, limit, offset int) (*models.HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.store.GetMessages(ctx, userID, limit, offset)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get messages from store: %w", err)
	}

	messages := page.Messages
	if messages == nil {
		messages = []models.Message{}
	}

	return &models.HistoryPage{
		UserID:        userID,
		Messages:      messages,
		TotalMessages: page.Total,
		HasMore:       page.HasMore,
		Limit:         limit,
		Offset:        offset,
	}, nil
}

// ClearHistory empties a user's conversation. The user ID stays valid
// for subsequent appends. Propagates store.ErrNotFound.
func (s *HistoryService) ClearHistory(ctx context.Context, userID string) error {
	if err := s.store.ClearMessages(ctx, userID); err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}

// CreateUser mints a new user ID, creates its conversation and seeds a
// system welcome message.
func (s *HistoryService) CreateUser(ctx context.Context, name string) (string, error) {
	userID := uuid.New().String()

	if err := s.store.CreateConversation(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}

	welcome := "Welcome to AI Vision Assistant! Upload an image to get started."
	if name != "" {
		welcome = fmt.Sprintf("Welcome to AI Vision Assistant, %s! Upload an image to get started.", name)
	}

	_, err := s.store.AppendMessages(ctx, userID, store.AppendMessageParams{
		Kind:    models.MessageKindSystem,
		Content: welcome,
	})
	if err != nil {
		return "", fmt.Errorf("failed to seed welcome message: %w", err)
	}

	return userID, nil
}
