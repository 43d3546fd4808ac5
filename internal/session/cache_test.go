package session

import (
	"testing"
	"time"

	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCacheRoundTrip(t *testing.T) {
	cache, err := newSessionCache()
	require.NoError(t, err)

	sess := model.Session{
		Id:       "sess-1",
		TableId:  "table-1",
		PlayerId: "player-1",
	}
	cache.Add(sess)

	got, found := cache.Get("sess-1")
	require.True(t, found)
	assert.Equal(t, sess, got)

	_, found = cache.Get("sess-unknown")
	assert.False(t, found)
}

func TestSessionCacheIgnoresEmptyId(t *testing.T) {
	cache, err := newSessionCache()
	require.NoError(t, err)

	cache.Add(model.Session{Id: ""})

	_, found := cache.Get("")
	assert.False(t, found)
}

func TestSessionCacheOverwrite(t *testing.T) {
	cache, err := newSessionCache()
	require.NoError(t, err)

	sess := model.Session{Id: "sess-1", LastActiveAt: time.Unix(100, 0)}
	cache.Add(sess)

	sess.LastActiveAt = time.Unix(200, 0)
	cache.Add(sess)

	got, found := cache.Get("sess-1")
	require.True(t, found)
	assert.Equal(t, time.Unix(200, 0), got.LastActiveAt)
}

func TestSessionCacheRemove(t *testing.T) {
	cache, err := newSessionCache()
	require.NoError(t, err)

	cache.Add(model.Session{Id: "sess-1"})
	cache.Remove("sess-1")

	_, found := cache.Get("sess-1")
	assert.False(t, found)
}
