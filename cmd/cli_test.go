package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
)

func executeCLI(t *testing.T, conversationsFile string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("CONVERSATIONS_FILE", conversationsFile)
	t.Setenv("GOGO_MODE", "MOCK")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConversationsFixture(t *testing.T, path string, n int) {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	exchanges := make([]domain.Exchange, 0, n)
	for i := 0; i < n; i++ {
		exchanges = append(exchanges, domain.Exchange{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			User:      "question " + string(rune('a'+i)),
			Bot:       "answer " + string(rune('a'+i)),
		})
	}
	data, err := json.Marshal(exchanges)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestHistoryPrintsMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	writeConversationsFixture(t, path, 3)

	stdout, _, err := executeCLI(t, path, "history", "--limit", "2")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "question a")
	assert.Contains(t, stdout, "user: question b")
	assert.Contains(t, stdout, "bot:  answer c")
	assert.Contains(t, stdout, "2024-05-01T12:02:00Z")
}

func TestHistoryJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	writeConversationsFixture(t, path, 2)

	stdout, _, err := executeCLI(t, path, "history", "--json", "--limit", "0")
	require.NoError(t, err)

	var got []domain.Exchange
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "question a", got[0].User)
}

func TestHistoryEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.json")

	stdout, _, err := executeCLI(t, path, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no conversations yet")
}

func TestResetEmptiesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	writeConversationsFixture(t, path, 3)

	stdout, _, err := executeCLI(t, path, "reset")
	require.NoError(t, err)
	assert.Contains(t, stdout, "All conversations deleted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUnknownStorageDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("CONVERSATIONS_FILE", path)

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "history"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestServeStopsWithContext(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GOGO_MODE", "MOCK")
	t.Setenv("PORT", "0")

	app, err := wireApp(context.Background(), filepath.Join(t.TempDir(), "missing.env"), &bytes.Buffer{})
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.NoError(t, serve(ctx, app))
}

func wireMockApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GOGO_MODE", "MOCK")

	app, err := wireApp(context.Background(), filepath.Join(t.TempDir(), "missing.env"), &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestDefaultConfigAcceptsLongMessages(t *testing.T) {
	app := wireMockApp(t)
	ctx := context.Background()

	reply, err := app.service.Chat(ctx, "s1", strings.Repeat("a", 8001))
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	assert.Len(t, app.service.History(ctx, 0), 1)
}

func TestConfiguredMessageLimitBlocks(t *testing.T) {
	t.Setenv("MAX_MESSAGE_CHARS", "10")
	app := wireMockApp(t)
	ctx := context.Background()

	_, err := app.service.Chat(ctx, "s1", strings.Repeat("a", 11))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, app.service.History(ctx, 0))
	assert.Empty(t, app.service.SessionTurns("s1"))

	_, err = app.service.Chat(ctx, "s1", strings.Repeat("a", 10))
	assert.NoError(t, err)
}
