// Package sessions mints, validates, and revokes session tokens. Sessions
// live in memory behind a single mutex, independent of the credential store's
// lock, and are mirrored to a JSON document after every mutation.
//
// Expiry is lazy: IsValid compares against the wall clock and expired entries
// stay in the collection until a sweep, revoke, or logout removes them.
package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/models"
	"github.com/watchdeck/watchdeck/internal/server/storage"
)

// DocumentName is the file name of the persisted session collection.
const DocumentName = "sessions.json"

// DefaultTTL is the session lifetime applied when the configured TTL is
// zero or negative.
const DefaultTTL = 24 * time.Hour

// Store is the session store. Construct with New, then call Load once at
// startup before serving requests.
type Store struct {
	mu       sync.Mutex
	path     string
	ttl      time.Duration
	sessions []models.Session
	logger   logging.Logger

	// now is replaceable in tests to simulate clock movement.
	now func() time.Time
}

func New(path string, ttl time.Duration, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		path:     path,
		ttl:      ttl,
		sessions: []models.Session{},
		logger:   logger.With("module", "sessions"),
		now:      time.Now,
	}
}

// Load reads the persisted collection. A corrupt document is logged and
// replaced with an empty collection so startup can continue.
func (s *Store) Load(ctx context.Context) {
	records, err := storage.Load[models.Session](s.path)
	if err != nil {
		s.logger.Error(ctx, "failed to parse session document, starting empty", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = records
	s.logger.Info(ctx, "loaded sessions from storage", "count", len(records))
}

// Issue mints a fresh session for username and returns its token. The token
// is a random UUID; a collision would mean the randomness source is broken,
// so it is treated as an unrecoverable invariant violation rather than
// silently overwritten.
func (s *Store) Issue(ctx context.Context, username string) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.SessionID == id {
			panic(fmt.Sprintf("sessions: duplicate session id %s", id))
		}
	}

	now := s.now().Unix()
	s.sessions = append(s.sessions, models.Session{
		SessionID: id,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now + int64(s.ttl.Seconds()),
	})
	s.persist(ctx)

	s.logger.Info(ctx, "session issued", "username", username)
	return id
}

// IsValid reports whether a session with the given id exists and has not
// expired. It never removes entries; expired sessions are cleaned up by
// Revoke, RevokeAll, or SweepExpired.
func (s *Store) IsValid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	for _, sess := range s.sessions {
		if sess.SessionID == id && sess.ExpiresAt > now {
			return true
		}
	}
	return false
}

// Revoke removes every session matching id. Unknown ids are a no-op; the
// document is rewritten only when something was removed.
func (s *Store) Revoke(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.SessionID != id {
			kept = append(kept, sess)
		}
	}

	if removed := len(s.sessions) - len(kept); removed > 0 {
		s.sessions = kept
		s.persist(ctx)
		s.logger.Info(ctx, "session revoked", "session_id", id)
	}
}

// RevokeAll clears the collection and persists unconditionally, keeping the
// on-disk document canonical even when it was already empty.
func (s *Store) RevokeAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.sessions)
	s.sessions = []models.Session{}
	s.persist(ctx)
	s.logger.Info(ctx, "all sessions revoked", "count", count)
}

// SweepExpired removes every session whose expiry is at or before the
// current time and returns how many were removed. The document is rewritten
// only when something was removed.
func (s *Store) SweepExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ExpiresAt > now {
			kept = append(kept, sess)
		}
	}

	removed := len(s.sessions) - len(kept)
	if removed > 0 {
		s.sessions = kept
		s.persist(ctx)
		s.logger.Info(ctx, "swept expired sessions", "removed", removed)
	}
	return removed
}

// Count returns the number of sessions currently held, expired or not.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// persist mirrors the in-memory collection to disk. Callers must hold s.mu;
// a write failure leaves the in-memory mutation in place and is surfaced as
// a diagnostic only.
func (s *Store) persist(ctx context.Context) {
	if err := storage.Save(s.path, s.sessions); err != nil {
		s.logger.Error(ctx, "failed to save sessions", "error", err)
		return
	}
	s.logger.Debug(ctx, "saved sessions to storage", "count", len(s.sessions))
}
