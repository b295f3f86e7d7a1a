package models

import "ai-vision-backend/internal/imaging"

// --- Request Structs ---

// AnalyzeRequest defines the expected body for the analyze endpoints.
// Image is a base64 string, optionally wrapped in a data URL
// ("data:image/jpeg;base64,...").
type AnalyzeRequest struct {
	Image       string `json:"image"`
	UserMessage string `json:"user_message,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// CreateUserRequest defines the body for minting a new user.
type CreateUserRequest struct {
	Name string `json:"name,omitempty"`
}

// --- Response Structs ---

// AnalyzeResponse is the slim payload returned by POST /analyze.
type AnalyzeResponse struct {
	Response string `json:"response"`
	UserID   string `json:"user_id"`
}

// AnalysisResult carries everything a completed analysis produced.
// The detailed endpoint returns it verbatim; the plain endpoint keeps
// only Response and UserID.
type AnalysisResult struct {
	Response           string                  `json:"response"`
	UserID             string                  `json:"user_id"`
	Image              imaging.ImageDescriptor `json:"image"`
	RecordedMessageIDs []string                `json:"recorded_message_ids"`
}

// HistoryPage is one page of a conversation's message history.
type HistoryPage struct {
	UserID        string    `json:"user_id"`
	Messages      []Message `json:"messages"`
	TotalMessages int       `json:"total_messages"`
	HasMore       bool      `json:"has_more"`
	Limit         int       `json:"limit"`
	Offset        int       `json:"offset"`
}

// CreateUserResponse is returned after minting a new user.
type CreateUserResponse struct {
	UserID string `json:"user_id"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
