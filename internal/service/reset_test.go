package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/memorychat/internal/repository"
)

func TestResetClearsLogAndSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil, reply("hello"))
	_, err := env.svc.Chat(ctx, "s1", "hi")
	require.NoError(t, err)

	require.NoError(t, env.svc.Reset(ctx, "s1"))

	assert.Empty(t, env.log.Load(ctx))
	assert.Empty(t, env.svc.SessionTurns("s1"))
	assert.Empty(t, env.svc.History(ctx, 0))
}

func TestResetFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(writeFailBackend{repository.NewMemoryBackend()}, reply("hello"))
	_, err := env.svc.Chat(ctx, "s1", "hi")
	require.NoError(t, err)

	err = env.svc.Reset(ctx, "s1")
	require.Error(t, err)
	assert.Len(t, env.svc.SessionTurns("s1"), 2)
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(nil)
	env.log.Append(ctx, "a", "1")
	env.log.Append(ctx, "b", "2")
	env.log.Append(ctx, "c", "3")

	assert.Len(t, env.svc.History(ctx, 0), 3)
	got := env.svc.History(ctx, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].User)
	assert.Equal(t, "c", got[1].User)

	require.NoError(t, env.svc.ClearHistory(ctx))
	assert.Empty(t, env.svc.History(ctx, 0))
}

func TestListModels(t *testing.T) {
	env := newTestEnv(nil)
	models, err := env.svc.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stub", models[0].ID)
}
