package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatalk/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSessionRoundTrip(t *testing.T) {
	database := newTestDB(t)

	session := models.Session{Token: "tok-123", Email: "jane@example.com", Name: "Jane Doe"}
	require.NoError(t, database.StoreSession("abc", session))

	got, err := database.GetSession("abc")
	require.NoError(t, err)
	assert.Equal(t, session.Token, got.Token)
	assert.Equal(t, session.Email, got.Email)

	require.NoError(t, database.DeleteSession("abc"))
	_, err = database.GetSession("abc")
	assert.Error(t, err)
}

func TestChatHistoryNewestFirst(t *testing.T) {
	database := newTestDB(t)

	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, database.StoreChatHistory("jane@example.com", models.ChatHistory{
			Message:  msg,
			Response: "ok",
		}))
	}

	history, err := database.GetChatHistory("jane@example.com", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "third", history[0].Message)
	assert.Equal(t, "second", history[1].Message)

	// Another user's history stays separate.
	other, err := database.GetChatHistory("joe@example.com", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
