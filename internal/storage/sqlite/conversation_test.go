package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbianco/edbot/internal/core"
)

func TestConversationRepo_AppendAndRecent(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		err := repo.AddTurn(ctx, core.Turn{
			SessionID:     "s1",
			CreatedAt:     now.Add(time.Duration(i) * time.Second),
			UserText:      fmt.Sprintf("user %d", i),
			AssistantText: fmt.Sprintf("reply %d", i),
		})
		require.NoError(t, err)
	}

	turns, err := repo.RecentTurns(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "user 2", turns[0].UserText, "oldest of the window comes first")
	assert.Equal(t, "user 4", turns[2].UserText)
	assert.Equal(t, "reply 4", turns[2].AssistantText)
}

func TestConversationRepo_LogIsUnbounded(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		err := repo.AddTurn(ctx, core.Turn{
			SessionID:     "s1",
			CreatedAt:     time.Now().UTC(),
			UserText:      fmt.Sprintf("u%d", i),
			AssistantText: fmt.Sprintf("a%d", i),
		})
		require.NoError(t, err)
	}

	count, err := repo.countTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 11, count)
}

func TestConversationRepo_LatestSessionID(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))
	ctx := context.Background()

	id, err := repo.LatestSessionID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id, "empty log has no session to resume")

	require.NoError(t, repo.AddTurn(ctx, core.Turn{SessionID: "first", CreatedAt: time.Now(), UserText: "hi", AssistantText: "hey"}))
	require.NoError(t, repo.AddTurn(ctx, core.Turn{SessionID: "second", CreatedAt: time.Now(), UserText: "oi", AssistantText: "olá"}))

	id, err = repo.LatestSessionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", id)
}

func TestConversationRepo_SessionsAreIsolated(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.AddTurn(ctx, core.Turn{SessionID: "a", CreatedAt: time.Now(), UserText: "hi", AssistantText: "hey"}))
	require.NoError(t, repo.AddTurn(ctx, core.Turn{SessionID: "b", CreatedAt: time.Now(), UserText: "oi", AssistantText: "olá"}))

	turns, err := repo.RecentTurns(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].UserText)
}
