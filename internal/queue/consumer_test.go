package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage_AppendsLine(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)
	for _, action := range []string{ActionCreated, ActionDeleted} {
		body, err := json.Marshal(EventActivity{Action: action, EventID: "abc", Owner: "u1", Title: "Gala", At: at})
		require.NoError(t, err)
		require.NoError(t, handleMessage(dir, body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "activity.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `[2025-05-01T18:30:00Z] Event created | event_id=abc | owner=u1 | title="Gala"`, lines[0])
	assert.Contains(t, lines[1], "Event deleted")
}

func TestHandleMessage_RejectsGarbage(t *testing.T) {
	assert.Error(t, handleMessage(t.TempDir(), []byte("{not json")))
}
