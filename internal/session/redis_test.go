// internal/session/redis_test.go
package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "assistant-chatbot/internal/common/errors"
	"assistant-chatbot/internal/models"
)

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)

	sess := testSession("r-1")
	sess.Context.Append(models.Turn{
		Message: models.Message{Text: "what is the vacation policy", TurnIndex: 0},
		Agent:   models.AgentHR,
	}, 20)
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load("r-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "r-1", loaded.ID)
	require.Len(t, loaded.Context.Turns, 1)
	assert.Equal(t, models.AgentHR, loaded.Context.Turns[0].Agent)
}

func TestRedisStore_LoadMissingReturnsNil(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)

	loaded, err := store.Load("missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	require.NoError(t, store.Save(testSession("r-ttl")))

	mr.FastForward(2 * time.Minute)

	loaded, err := store.Load("r-ttl")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)
	require.NoError(t, store.Save(testSession("r-del")))
	require.NoError(t, store.Delete("r-del"))

	loaded, err := store.Load("r-del")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_ListIDs(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Hour)
	require.NoError(t, store.Save(testSession("one")))
	require.NoError(t, store.Save(testSession("two")))

	ids, err := store.ListIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, ids)
}

func TestRedisStore_SaveErrorIsWrapped(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, time.Hour)

	sess := testSession("r-err")
	data, err := json.Marshal(sess)
	require.NoError(t, err)
	mock.ExpectSet("chatbot:session:r-err", data, time.Hour).SetErr(errors.New("connection refused"))

	err = store.Save(sess)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeSessionStoreFailed, stderrors.AsStandard(err).Code)
}

func TestRedisStore_LoadCorruptPayloadIsWrapped(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Hour)
	mr.Set("chatbot:session:corrupt", "not json")

	loaded, err := store.Load("corrupt")
	require.Error(t, err)
	assert.Nil(t, loaded)
	assert.Equal(t, stderrors.ErrCodeSessionStoreFailed, stderrors.AsStandard(err).Code)
}
