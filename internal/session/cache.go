package session

import (
	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// sessionCache keeps recently seen sessions in memory so the rejoin and
// heartbeat paths skip a store round trip for the common case. The store
// stays the source of truth; entries are refreshed on every write-through.
type sessionCache struct {
	sessions *lru.Cache
}

func newSessionCache() (*sessionCache, error) {
	size := 100000
	sessions, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize session cache")
	}
	return &sessionCache{sessions: sessions}, nil
}

func (c *sessionCache) Add(sess model.Session) {
	if sess.Id == "" {
		return
	}
	c.sessions.Add(sess.Id, sess)
}

func (c *sessionCache) Get(sessionId string) (model.Session, bool) {
	v, exists := c.sessions.Get(sessionId)
	if !exists {
		return model.Session{}, false
	}
	return v.(model.Session), true
}

func (c *sessionCache) Remove(sessionId string) {
	c.sessions.Remove(sessionId)
}
