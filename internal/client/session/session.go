// Package session holds the process-wide authentication state: the access
// token, the user it belongs to, and its persisted copy.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/merrycards/merry/internal/common"
)

// KV is the secure storage the session persists into.
type KV interface {
	Get(ctx context.Context, name string) (string, error)
	SetAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, names ...string) error
}

// Session is safe for concurrent use. Observers run synchronously on the
// goroutine that changed the state, after the lock is released.
type Session struct {
	store KV

	mu        sync.RWMutex
	token     string
	username  string
	observers map[int]func(bool)
	nextID    int
}

func New(store KV) *Session {
	return &Session{store: store, observers: map[int]func(bool){}}
}

// Token returns the current access token or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn to be called whenever the authenticated flag flips.
// The returned func removes the observer.
func (s *Session) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Authenticate persists token and username together, then activates them.
// On a storage failure the in-memory state is left untouched.
func (s *Session) Authenticate(ctx context.Context, username, token string) error {
	if token == "" {
		return fmt.Errorf("authenticate %q: empty token", username)
	}

	err := s.store.SetAll(ctx, map[string]string{
		common.AccessTokenKey: token,
		common.UsernameKey:    username,
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.set(username, token)
	return nil
}

// Clear drops the in-memory token first, so no later request carries it,
// then deletes the persisted copy.
func (s *Session) Clear(ctx context.Context) error {
	s.set("", "")

	if err := s.store.Delete(ctx, common.AccessTokenKey, common.UsernameKey); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	return nil
}

// Restore loads a persisted token without validating it with the server.
// It reports whether a token was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return false, fmt.Errorf("read stored token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	username, err := s.store.Get(ctx, common.UsernameKey)
	if err != nil {
		return false, fmt.Errorf("read stored username: %w", err)
	}

	s.set(username, token)
	return true, nil
}

func (s *Session) set(username, token string) {
	s.mu.Lock()
	was := s.token != ""
	s.token = token
	s.username = username
	now := s.token != ""

	var notify []func(bool)
	if was != now {
		notify = make([]func(bool), 0, len(s.observers))
		for _, fn := range s.observers {
			notify = append(notify, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(now)
	}
}

// TokenInfo is what the access token says about itself. It is read without
// signature verification and is for display only.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Describe decodes the current token's claims. ok is false when there is no
// token or it is not a JWT.
func (s *Session) Describe() (info TokenInfo, ok bool) {
	tok := s.Token()
	if tok == "" {
		return TokenInfo{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return TokenInfo{}, false
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		info.Subject = sub
	} else if uid, found := claims["user_id"]; found {
		info.Subject = fmt.Sprint(uid)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time.UTC()
	}
	return info, true
}
