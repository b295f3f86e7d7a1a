package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/store"
)

// conversation holds one user's ordered message history. Each
// conversation carries its own mutex so appends for unrelated users
// never serialize, while a batch append on one conversation is atomic
// with respect to other callers on the same user ID.
type conversation struct {
	mu       sync.Mutex
	userID   string
	messages []models.Message
}

// MemoryStore is an in-process implementation of store.Store. History
// lives for the process lifetime only; nothing is spilled to disk.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation

	// now is the clock used for message timestamps; tests substitute
	// a deterministic function.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversation),
		now:           time.Now,
	}
}

// SetClock replaces the timestamp source. Intended for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// getOrCreate returns the conversation for userID, creating it if
// needed. The common case is a hit under the read lock.
func (s *MemoryStore) getOrCreate(userID string) *conversation {
	s.mu.RLock()
	conv, ok := s.conversations[userID]
	s.mu.RUnlock()
	if ok {
		return conv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another goroutine may have created it meanwhile.
	if conv, ok := s.conversations[userID]; ok {
		return conv
	}
	conv = &conversation{userID: userID}
	s.conversations[userID] = conv
	return conv
}

// get returns the conversation or nil if the user ID is unseen.
func (s *MemoryStore) get(userID string) *conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversations[userID]
}

// AppendMessages implements store.Store. The whole batch is appended
// under the conversation's lock, assigning fresh message IDs and
// wall-clock timestamps in order.
func (s *MemoryStore) AppendMessages(ctx context.Context, userID string, params ...store.AppendMessageParams) ([]models.Message, error) {
	conv := s.getOrCreate(userID)

	s.mu.RLock()
	now := s.now
	s.mu.RUnlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()

	appended := make([]models.Message, 0, len(params))
	for _, p := range params {
		msg := models.Message{
			MessageID:       uuid.New().String(),
			UserID:          userID,
			Kind:            p.Kind,
			Content:         p.Content,
			ImageDescriptor: p.ImageDescriptor,
			Timestamp:       now(),
		}
		conv.messages = append(conv.messages, msg)
		appended = append(appended, msg)
	}
	return appended, nil
}

// GetMessages implements store.Store. The window and total are computed
// under the conversation's lock, so pagination always reflects one
// consistent snapshot. The returned slice is a copy.
func (s *MemoryStore) GetMessages(ctx context.Context, userID string, limit, offset int) (*store.MessagePage, error) {
	conv := s.get(userID)
	if conv == nil {
		return nil, store.ErrNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	total := len(conv.messages)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := make([]models.Message, end-start)
	copy(page, conv.messages[start:end])

	return &store.MessagePage{
		Messages: page,
		Total:    total,
		HasMore:  offset+limit < total,
	}, nil
}

// ClearMessages implements store.Store. The conversation identity
// survives; only its messages are dropped.
func (s *MemoryStore) ClearMessages(ctx context.Context, userID string) error {
	conv := s.get(userID)
	if conv == nil {
		return store.ErrNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	conv.messages = nil
	return nil
}

// CreateConversation implements store.Store.
func (s *MemoryStore) CreateConversation(ctx context.Context, userID string) error {
	s.getOrCreate(userID)
	return nil
}

// ConversationExists implements store.Store.
func (s *MemoryStore) ConversationExists(ctx context.Context, userID string) (bool, error) {
	return s.get(userID) != nil, nil
}

var _ store.Store = (*MemoryStore)(nil)
