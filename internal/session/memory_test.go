// internal/session/memory_test.go
package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-chatbot/internal/models"
)

func testSession(id string) *models.Session {
	now := time.Now().UTC()
	return &models.Session{
		ID:        id,
		UserID:    "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_SaveAndLoad(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	require.NoError(t, store.Save(testSession("s-1")))

	loaded, err := store.Load("s-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "s-1", loaded.ID)
	assert.Equal(t, "user-1", loaded.UserID)
}

func TestMemoryStore_LoadMissingReturnsNil(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	loaded, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStore_ExpiredSessionIsGone(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	require.NoError(t, store.Save(testSession("s-ttl")))

	time.Sleep(30 * time.Millisecond)

	loaded, err := store.Load("s-ttl")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	ids, err := store.ListIDs()
	require.NoError(t, err)
	assert.NotContains(t, ids, "s-ttl")
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	require.NoError(t, store.Save(testSession("s-copy")))

	first, err := store.Load("s-copy")
	require.NoError(t, err)
	first.UserID = "mutated"

	second, err := store.Load("s-copy")
	require.NoError(t, err)
	assert.Equal(t, "user-1", second.UserID)
}

func TestMemoryStore_TurnsDetachedFromCallerSlice(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	sess := testSession("s-turns")
	sess.Context.Turns = make([]models.Turn, 0, 4)
	sess.Context.Turns = append(sess.Context.Turns, models.Turn{
		Message: models.Message{Text: "first", TurnIndex: 0},
		Agent:   models.AgentHR,
	})
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("s-turns")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Context.Turns, 1)

	// The live session keeps mutating and appending into spare capacity;
	// neither may show through the loaded copy.
	sess.Context.Turns[0].Message.Text = "rewritten"
	sess.Context.Turns = append(sess.Context.Turns, models.Turn{
		Message: models.Message{Text: "second", TurnIndex: 1},
	})

	assert.Equal(t, "first", loaded.Context.Turns[0].Message.Text)
	assert.Len(t, loaded.Context.Turns, 1)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	require.NoError(t, store.Save(testSession("s-del")))
	require.NoError(t, store.Delete("s-del"))

	loaded, err := store.Load("s-del")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStore_ListIDs(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	require.NoError(t, store.Save(testSession("a")))
	require.NoError(t, store.Save(testSession("b")))

	ids, err := store.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
