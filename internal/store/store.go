package store

import (
	"context"
	"errors"

	"ai-vision-backend/internal/imaging"
	"ai-vision-backend/internal/models"
)

// ErrNotFound is returned when a conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// AppendMessageParams describes one message to append. Message IDs and
// timestamps are assigned by the store at append time.
type AppendMessageParams struct {
	Kind            models.MessageKind
	Content         string
	ImageDescriptor *imaging.ImageDescriptor
}

// MessagePage is one pagination window over a conversation's messages,
// computed against a single atomic snapshot of the sequence.
type MessagePage struct {
	Messages []models.Message
	Total    int
	HasMore  bool
}

// Store defines the interface for the conversation ledger.
// This allows for mocking in tests and potential backend switching.
//
// Conversations are append-only per user ID. AppendMessages atomically
// appends its whole batch, so a multi-message exchange recorded by one
// caller is never interleaved with another caller's messages on the
// same conversation.
type Store interface {
	// AppendMessages appends the batch to the user's conversation,
	// creating the conversation if the user ID is unseen. It never
	// returns ErrNotFound. The returned messages carry their assigned
	// IDs and timestamps, in append order.
	AppendMessages(ctx context.Context, userID string, params ...AppendMessageParams) ([]models.Message, error)

	// GetMessages returns the [offset, offset+limit) window of the
	// conversation. Returns ErrNotFound for an unknown user ID.
	GetMessages(ctx context.Context, userID string, limit, offset int) (*MessagePage, error)

	// ClearMessages empties the conversation but keeps it alive for
	// subsequent appends. Returns ErrNotFound for an unknown user ID.
	ClearMessages(ctx context.Context, userID string) error

	// CreateConversation explicitly creates an empty conversation.
	// Creating an existing conversation is a no-op.
	CreateConversation(ctx context.Context, userID string) error

	// ConversationExists reports whether the user ID has a conversation.
	ConversationExists(ctx context.Context, userID string) (bool, error)
}
