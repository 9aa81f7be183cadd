package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"routehub-client/internal/dto"
	"routehub-client/internal/response"
)

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

// Manager is the session provider backed by a Store.
// It also serves as the transport's token source.
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu   sync.RWMutex
	data *Data
}

// NewManager creates a Manager. Call Load to pick up a stored session.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the stored session into memory. A missing or expired session is not an error.
func (m *Manager) Load(ctx context.Context) error {
	data, err := m.store.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		m.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if m.expired(data) {
		m.logger.Info("Stored session has expired", zap.Time("expires_at", data.ExpiresAt))
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Warn("Failed to clear expired session", zap.Error(err))
		}
		m.set(nil)
		return nil
	}
	m.set(data)
	return nil
}

// Current returns the signed-in identity, if any
func (m *Manager) Current() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil || m.data.User == nil || m.data.User.ID == "" || m.expired(m.data) {
		return Identity{}, false
	}
	return identityFrom(m.data.User), true
}

// Token returns the bearer token, or "" when signed out or expired
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil || m.expired(m.data) {
		return ""
	}
	return m.data.Token
}

// Login authenticates and persists the session
func (m *Manager) Login(ctx context.Context, auth Authenticator, email, password string) (*dto.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, response.NewValidationError("Email and password are required")
	}

	resp, err := auth.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, response.NewAppError(response.ErrCodeInconsistent, response.GenericErrorMessage, "login response carried no token")
	}

	user := resp.User
	expiresAt := resp.ExpirationTime.Time
	if claims, ok := parseClaims(resp.Token); ok {
		if expiresAt.IsZero() && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if user.ID == "" {
			user.ID = claims.Subject
		}
	}

	data := &Data{Token: resp.Token, ExpiresAt: expiresAt, User: &user}
	if err := m.store.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.set(data)

	m.logger.Info("Signed in",
		zap.String("user_id", user.ID),
		zap.Time("expires_at", expiresAt),
	)
	return &user, nil
}

// Logout forgets the session
func (m *Manager) Logout(ctx context.Context) error {
	m.set(nil)
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Invalidate drops the session after the API rejected its token
func (m *Manager) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Logout(ctx); err != nil {
		m.logger.Warn("Failed to clear rejected session", zap.Error(err))
	}
}

func (m *Manager) set(data *Data) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}

func (m *Manager) expired(data *Data) bool {
	exp := data.ExpiresAt
	if exp.IsZero() {
		if claims, ok := parseClaims(data.Token); ok && claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
	}
	return !exp.IsZero() && !m.now().Before(exp)
}

// parseClaims reads the registered claims of a JWT without verifying it.
// The API is the only party that can verify; the client only needs exp and sub.
func parseClaims(token string) (*jwt.RegisteredClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
