// Package session holds the per-credential state of one interactive
// session: the credential itself and the model identifier resolved for it.
// Everything lives in memory and dies with the process.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Session struct {
	mu            sync.Mutex
	credential    string
	resolvedModel string
}

func (s *Session) Credential() string {
	return s.credential
}

// ResolvedModel returns the cached identifier, if resolution already ran.
func (s *Session) ResolvedModel() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvedModel, s.resolvedModel != ""
}

func (s *Session) SetResolvedModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolvedModel = model
}

// InvalidateModel clears the cached identifier, but only if it still equals
// current; a concurrent re-resolution is not discarded.
func (s *Session) InvalidateModel(current string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolvedModel == current {
		s.resolvedModel = ""
	}
}

// Store hands out the session for a credential, creating it on first use.
// Entries expire after the configured idle TTL.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewStore(size int, ttl time.Duration) *Store {
	return &Store{cache: expirable.NewLRU[string, *Session](size, nil, ttl)}
}

func (st *Store) Get(credential string) *Session {
	key := hashKey(credential)
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.cache.Get(key); ok {
		return sess
	}
	sess := &Session{credential: credential}
	st.cache.Add(key, sess)
	return sess
}

// hashKey keeps the raw credential out of cache keys.
func hashKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}
