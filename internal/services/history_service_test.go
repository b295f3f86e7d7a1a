package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-vision-backend/internal/models"
	"ai-vision-backend/internal/store"
	"ai-vision-backend/internal/store/memory"
)

func seedMessages(t *testing.T, st *memory.MemoryStore, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := st.AppendMessages(context.Background(), userID, store.AppendMessageParams{
			Kind:    models.MessageKindText,
			Content: fmt.Sprintf("msg-%d", i),
		})
		require.NoError(t, err)
	}
}

func TestGetHistoryDefaultsAndClamping(t *testing.T) {
	st := memory.NewMemoryStore()
	svc := NewHistoryService(st)
	ctx := context.Background()

	seedMessages(t, st, "user-1", 3)

	page, err := svc.GetHistory(ctx, "user-1", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 3, page.TotalMessages)
	assert.Len(t, page.Messages, 3)
	assert.False(t, page.HasMore)

	page, err = svc.GetHistory(ctx, "user-1", MaxHistoryLimit+100, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxHistoryLimit, page.Limit)
}

func TestGetHistoryPaginatesWithHasMore(t *testing.T) {
	st := memory.NewMemoryStore()
	svc := NewHistoryService(st)

	seedMessages(t, st, "user-1", 5)

	page, err := svc.GetHistory(context.Background(), "user-1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalMessages)
	assert.True(t, page.HasMore)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "msg-2", page.Messages[0].Content)
}

func TestGetHistoryUnknownUser(t *testing.T) {
	svc := NewHistoryService(memory.NewMemoryStore())

	page, err := svc.GetHistory(context.Background(), "nobody", 10, 0)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClearHistory(t *testing.T) {
	st := memory.NewMemoryStore()
	svc := NewHistoryService(st)
	ctx := context.Background()

	seedMessages(t, st, "user-1", 2)
	require.NoError(t, svc.ClearHistory(ctx, "user-1"))

	page, err := svc.GetHistory(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalMessages)
	assert.Empty(t, page.Messages)

	assert.ErrorIs(t, svc.ClearHistory(ctx, "nobody"), store.ErrNotFound)
}

func TestCreateUserSeedsWelcomeMessage(t *testing.T) {
	st := memory.NewMemoryStore()
	svc := NewHistoryService(st)
	ctx := context.Background()

	userID, err := svc.CreateUser(ctx, "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	page, err := svc.GetHistory(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalMessages)
	assert.Equal(t, models.MessageKindSystem, page.Messages[0].Kind)
	assert.Contains(t, page.Messages[0].Content, "Ada")

	anonID, err := svc.CreateUser(ctx, "")
	require.NoError(t, err)
	assert.NotEqual(t, userID, anonID)

	page, err = svc.GetHistory(ctx, anonID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalMessages)
	assert.Equal(t, models.MessageKindSystem, page.Messages[0].Kind)
}
