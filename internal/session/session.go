// Package session implements username/PIN login and session persistence.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"cartbook/internal/metrics"
	"cartbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// UserSource provides the login directory.
type UserSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Store persists sessions keyed by token.
type Store interface {
	Set(ctx context.Context, token string, user models.User, ttl time.Duration) error
	Get(ctx context.Context, token string) (models.User, error)
	Delete(ctx context.Context, token string) error
}

// Manager handles login, logout and session lookup. Login attempts are
// throttled per normalized username.
type Manager struct {
	users  UserSource
	store  Store
	ttl    time.Duration
	logger *zerolog.Logger

	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewManager creates a session manager. perMinute and burst bound the
// login attempts allowed per username.
func NewManager(users UserSource, store Store, ttl time.Duration, perMinute, burst int, logger *zerolog.Logger) *Manager {
	return &Manager{
		users:    users,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Login matches the normalized username and exact PIN against the user
// directory and opens a session. The returned token identifies it.
func (m *Manager) Login(ctx context.Context, username, pin string) (string, models.User, error) {
	key := Normalize(username)
	if !m.limiter(key).Allow() {
		metrics.IncLogin("throttled")
		return "", models.User{}, models.ErrTooManyAttempts
	}

	users, err := m.users.ListUsers(ctx)
	if err != nil {
		return "", models.User{}, err
	}

	var match *models.User
	for i := range users {
		if Normalize(users[i].Username) == key && users[i].PinCode == pin {
			match = &users[i]
			break
		}
	}
	if match == nil {
		metrics.IncLogin("failure")
		m.logger.Warn().Str("username", username).Msg("login rejected")
		return "", models.User{}, models.ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := m.store.Set(ctx, token, *match, m.ttl); err != nil {
		return "", models.User{}, err
	}

	metrics.IncLogin("success")
	m.logger.Info().Str("username", match.Username).Msg("login succeeded")
	return token, *match, nil
}

// Authenticate resolves a session token to its user.
func (m *Manager) Authenticate(ctx context.Context, token string) (models.User, error) {
	return m.store.Get(ctx, token)
}

// Logout closes the session. Unknown tokens are not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

func (m *Manager) limiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.limit, m.burst)
		m.limiters[key] = l
	}
	return l
}

var diacritics = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Normalize strips spaces, lowercases and folds the Portuguese accented
// letters so "José Silva" and "josesilva" match the same account.
func Normalize(username string) string {
	return diacritics.Replace(strings.ToLower(strings.ReplaceAll(username, " ", "")))
}
