// internal/security/security.go
package security

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stocksync/internal/logger"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "stocksync_session"

type session struct {
	username string
	expiry   time.Time
}

var (
	sessions   = make(map[string]session)
	sessionsMu sync.Mutex
	sessionTTL = 8 * time.Hour
)

// User is one operator account. Admin users see low-stock alerts and may
// create items.
type User struct {
	PasswordHash []byte
	Admin        bool
}

// UserStore holds the known operators. The server is the sole authority
// on who is privileged.
type UserStore struct {
	users map[string]User
}

// NewUserStore hashes the given plaintext credentials. Used at startup
// with the seed accounts and by tests.
func NewUserStore(credentials map[string]string, admins ...string) (*UserStore, error) {
	adminSet := make(map[string]bool, len(admins))
	for _, name := range admins {
		adminSet[name] = true
	}

	users := make(map[string]User, len(credentials))
	for name, password := range credentials {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users[name] = User{PasswordHash: hash, Admin: adminSet[name]}
	}
	return &UserStore{users: users}, nil
}

// Verify checks a username/password pair.
func (s *UserStore) Verify(username, password string) bool {
	user, ok := s.users[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) == nil
}

// IsAdmin reports whether the user is privileged.
func (s *UserStore) IsAdmin(username string) bool {
	return s.users[username].Admin
}

// SetSessionTTL overrides the default session lifetime.
func SetSessionTTL(ttl time.Duration) {
	if ttl > 0 {
		sessionTTL = ttl
	}
}

// CreateSession issues a new session token for a logged-in user.
func CreateSession(username string) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(bytes)

	sessionsMu.Lock()
	sessions[token] = session{username: username, expiry: time.Now().Add(sessionTTL)}
	sessionsMu.Unlock()

	return token, nil
}

// SessionUser resolves a token to its username. Expired tokens are
// treated as absent.
func SessionUser(token string) (string, bool) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	sess, ok := sessions[token]
	if !ok || time.Now().After(sess.expiry) {
		return "", false
	}
	return sess.username, true
}

// DestroySession removes a token on logout.
func DestroySession(token string) {
	sessionsMu.Lock()
	delete(sessions, token)
	sessionsMu.Unlock()
}

// CleanExpiredSessions periodically drops expired sessions. Run as a
// background goroutine.
func CleanExpiredSessions() {
	ticker := time.NewTicker(time.Minute * 5)
	defer ticker.Stop()

	for range ticker.C {
		sessionsMu.Lock()
		for token, sess := range sessions {
			if time.Now().After(sess.expiry) {
				delete(sessions, token)
			}
		}
		sessionsMu.Unlock()
		logger.LogInfo("Session cleanup completed")
	}
}
