package models

import (
	"time"

	"ai-vision-backend/internal/imaging"
)

// MessageKind classifies the events recorded in a conversation.
type MessageKind string

const (
	MessageKindImage    MessageKind = "image"    // user uploaded an image
	MessageKindText     MessageKind = "text"     // free-text message from the user
	MessageKindResponse MessageKind = "response" // assistant answer
	MessageKindSystem   MessageKind = "system"   // service-generated notice
)

// Message is a single immutable entry in a conversation. Messages are
// append-only; ordering within a conversation is insertion order.
// Image messages carry only the decoded descriptor, never the raw bytes.
type Message struct {
	MessageID       string                   `json:"message_id"`
	UserID          string                   `json:"user_id"`
	Kind            MessageKind              `json:"message_type"`
	Content         string                   `json:"content"`
	ImageDescriptor *imaging.ImageDescriptor `json:"analysis,omitempty"`
	Timestamp       time.Time                `json:"timestamp"`
}
