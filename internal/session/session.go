// Package session keeps the shopper and admin credentials in the client store
// and decides which routes may render.
package session

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"goldmart/internal/clientstore"
	"goldmart/internal/domain"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
)

type Manager struct {
	store clientstore.Store
	log   *slog.Logger
}

func New(store clientstore.Store, log *slog.Logger) *Manager {
	return &Manager{store: store, log: logger.OrDefault(log)}
}

// Login stores the profile returned by the backend together with its token.
func (m *Manager) Login(u domain.User) error {
	if u.Token == "" {
		return domain.ErrValidation("login response carried no token")
	}
	if err := clientstore.SetJSON(m.store, clientstore.KeyUser, u); err != nil {
		return err
	}
	return m.store.Set(clientstore.KeyToken, u.Token)
}

func (m *Manager) Logout() error {
	if err := m.store.Remove(clientstore.KeyUser); err != nil {
		return err
	}
	return m.store.Remove(clientstore.KeyToken)
}

// ForceLogout is the reaction to a 401: the session is dropped whatever the
// store says.
func (m *Manager) ForceLogout() {
	if err := m.Logout(); err != nil {
		m.log.Error("session: forced logout failed", sl.Err(err))
		return
	}
	m.log.Warn("session expired, logged out")
}

func (m *Manager) Token() string {
	return m.get(clientstore.KeyToken)
}

func (m *Manager) LoggedIn() bool {
	return m.Token() != ""
}

// User returns the stored profile; false when nobody is logged in.
func (m *Manager) User() (domain.User, bool) {
	var u domain.User
	ok, err := clientstore.GetJSON(m.store, clientstore.KeyUser, &u)
	if err != nil {
		m.log.Warn("session: unreadable user", sl.Err(err))
		return domain.User{}, false
	}
	return u, ok
}

// UserID is empty when no profile is stored.
func (m *Manager) UserID() string {
	u, _ := m.User()
	return u.ID
}

// CacheProfile keeps the server-side address list and default index next to
// the session.
func (m *Manager) CacheProfile(u domain.User) error {
	addrs := u.Addresses
	if addrs == nil {
		addrs = []domain.Address{}
	}
	if err := clientstore.SetJSON(m.store, clientstore.KeyUserAddresses, addrs); err != nil {
		return err
	}
	return m.store.Set(clientstore.KeyDefaultAddressIndex, strconv.Itoa(u.DefaultAddressIndex))
}

func (m *Manager) AdminLogin(token string) error {
	if token == "" {
		return domain.ErrValidation("admin login response carried no token")
	}
	if err := m.store.Set(clientstore.KeyAdminToken, token); err != nil {
		return err
	}
	return m.store.Set(clientstore.KeyIsAdmin, "true")
}

func (m *Manager) AdminLogout() error {
	if err := m.store.Remove(clientstore.KeyAdminToken); err != nil {
		return err
	}
	return m.store.Remove(clientstore.KeyIsAdmin)
}

func (m *Manager) ForceAdminLogout() {
	if err := m.AdminLogout(); err != nil {
		m.log.Error("session: forced admin logout failed", sl.Err(err))
		return
	}
	m.log.Warn("admin session expired, logged out")
}

func (m *Manager) AdminToken() string {
	return m.get(clientstore.KeyAdminToken)
}

// IsAdmin needs both the admin flag and the admin token.
func (m *Manager) IsAdmin() bool {
	return m.get(clientstore.KeyIsAdmin) == "true" && m.AdminToken() != ""
}

func (m *Manager) get(key string) string {
	v, ok, err := m.store.Get(key)
	if err != nil {
		m.log.Warn("session: store read failed", slog.String("key", key), sl.Err(err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// TokenExpiry reads the exp claim without verifying the signature. It is for
// display only; the backend stays the judge of validity.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
