// Package users owns the registered-user collection: admin bootstrap and
// credential verification. The collection lives in memory behind a single
// mutex and is mirrored to a JSON document after every mutation.
package users

import (
	"context"
	"sync"

	"github.com/watchdeck/watchdeck/internal/common"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/server/auth"
	"github.com/watchdeck/watchdeck/internal/server/models"
	"github.com/watchdeck/watchdeck/internal/server/storage"
)

// DocumentName is the file name of the persisted user collection.
const DocumentName = "users.json"

// Store is the credential store. Construct with New, then call Load once at
// startup before serving requests.
type Store struct {
	mu     sync.Mutex
	path   string
	users  []models.User
	logger logging.Logger
}

func New(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:   path,
		users:  []models.User{},
		logger: logger.With("module", "users"),
	}
}

// Load reads the persisted collection. A missing document is the expected
// first-run state; a corrupt one is logged and replaced with an empty
// collection so startup can continue.
func (s *Store) Load(ctx context.Context) {
	records, err := storage.Load[models.User](s.path)
	if err != nil {
		s.logger.Error(ctx, "failed to parse user document, starting empty", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = records
	s.logger.Info(ctx, "loaded users from storage", "count", len(records))
}

// NeedsSetup reports whether the user collection is empty, i.e. whether the
// one-shot admin bootstrap has not happened yet.
func (s *Store) NeedsSetup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users) == 0
}

// BootstrapAdmin creates the first user with the admin role. Any existing
// user blocks it with common.ErrAlreadyInitialized; this is the only
// admin-creation path, not a general registration API.
//
// The returned User has its PasswordHash cleared; the hash never leaves the
// store.
func (s *Store) BootstrapAdmin(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) > 0 {
		return nil, common.ErrAlreadyInitialized
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	s.users = append(s.users, user)
	s.persist(ctx)

	s.logger.Info(ctx, "admin user created", "username", username)

	created := user
	created.PasswordHash = ""
	return &created, nil
}

// VerifyCredentials checks username and password against the stored
// collection. Unknown user, wrong password, and a hashing-primitive failure
// are all reported as the same negative outcome.
//
// The returned User has its PasswordHash cleared.
func (s *Store) VerifyCredentials(ctx context.Context, username, password string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if !auth.VerifyPassword(password, u.PasswordHash) {
			s.logger.Info(ctx, "login rejected", "username", username)
			return nil, false
		}
		matched := u
		matched.PasswordHash = ""
		return &matched, true
	}

	s.logger.Info(ctx, "login rejected", "username", username)
	return nil, false
}

// persist mirrors the in-memory collection to disk. Callers must hold s.mu:
// mutation and save are one critical section, so no reader can observe a
// state that is not on its way to disk. A write failure leaves the in-memory
// mutation in place and is surfaced as a diagnostic only.
func (s *Store) persist(ctx context.Context) {
	if err := storage.Save(s.path, s.users); err != nil {
		s.logger.Error(ctx, "failed to save users", "error", err)
		return
	}
	s.logger.Debug(ctx, "saved users to storage", "count", len(s.users))
}
