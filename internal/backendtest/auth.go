package backendtest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goldmart/internal/domain"
)

const TokenTTL = 30 * 24 * time.Hour

// AuthService issues and verifies HS256 tokens for shoppers and admins.
type AuthService struct {
	JWTSecret string
	Now       func() time.Time
}

type Claims struct {
	UserID string
	Admin  bool
}

func (s *AuthService) Issue(userID string, admin bool) (string, error) {
	now := s.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"admin":   admin,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.JWTSecret))
}

func (s *AuthService) Verify(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(s.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil {
		return Claims{}, err
	}
	m, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid claims")
	}
	uid, _ := m["user_id"].(string)
	admin, _ := m["admin"].(bool)
	if uid == "" {
		return Claims{}, errors.New("token has no subject")
	}
	return Claims{UserID: uid, Admin: admin}, nil
}

const ctxUserID = "backendtest.user_id"

func (b *Backend) authenticate(c *gin.Context) (Claims, bool) {
	h := c.GetHeader("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || tok == "" {
		fail(c, http.StatusUnauthorized, "Not authorized, no token")
		return Claims{}, false
	}
	cl, err := b.auth.Verify(tok)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Not authorized, token failed")
		return Claims{}, false
	}
	b.mu.RLock()
	_, exists := b.accounts[cl.UserID]
	b.mu.RUnlock()
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authorized, user not found")
		return Claims{}, false
	}
	c.Set(ctxUserID, cl.UserID)
	return cl, true
}

func (b *Backend) requireUser(c *gin.Context) {
	if _, ok := b.authenticate(c); ok {
		c.Next()
	}
}

func (b *Backend) requireAdmin(c *gin.Context) {
	cl, ok := b.authenticate(c)
	if !ok {
		return
	}
	if !cl.Admin {
		fail(c, http.StatusForbidden, "Not authorized as admin")
		return
	}
	c.Next()
}

func (b *Backend) addAccount(name, email, password string, admin bool) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email = normEmail(email)
	for _, a := range b.accounts {
		if a.user.Email == email {
			return domain.User{}, domain.ErrConflict("User already exists")
		}
	}
	u := domain.User{ID: uuid.NewString(), Name: strings.TrimSpace(name), Email: email, IsAdmin: admin, CreatedAt: b.now().UTC()}
	b.accounts[u.ID] = &account{user: u, hash: hash}
	return u, nil
}

// SeedUser registers a shopper and returns the profile with a fresh token.
func (b *Backend) SeedUser(name, email, password string) (domain.User, error) {
	u, err := b.addAccount(name, email, password, false)
	if err != nil {
		return domain.User{}, err
	}
	u.Token, err = b.auth.Issue(u.ID, false)
	return u, err
}

func (b *Backend) handleRegister(c *gin.Context) {
	var in domain.Registration
	if !bind(c, &in) {
		return
	}
	u, err := b.SeedUser(in.Name, in.Email, in.Password)
	var conflict domain.ErrConflict
	switch {
	case errors.As(err, &conflict):
		fail(c, http.StatusBadRequest, conflict.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (b *Backend) checkPassword(email, password string) (domain.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	email = normEmail(email)
	for _, a := range b.accounts {
		if a.user.Email == email {
			if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil {
				return a.user, true
			}
			return domain.User{}, false
		}
	}
	return domain.User{}, false
}

func (b *Backend) handleLogin(c *gin.Context) {
	var in domain.Credentials
	if !bind(c, &in) {
		return
	}
	u, ok := b.checkPassword(in.Email, in.Password)
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	tok, err := b.auth.Issue(u.ID, u.IsAdmin)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	u.Token = tok
	c.JSON(http.StatusOK, u)
}

func (b *Backend) handleAdminLogin(c *gin.Context) {
	var in domain.Credentials
	if !bind(c, &in) {
		return
	}
	u, ok := b.checkPassword(in.Email, in.Password)
	if !ok || !u.IsAdmin {
		fail(c, http.StatusUnauthorized, "Invalid admin credentials")
		return
	}
	tok, err := b.auth.Issue(u.ID, true)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

func (b *Backend) current(c *gin.Context) *account {
	return b.accounts[c.GetString(ctxUserID)]
}

func (b *Backend) handleProfile(c *gin.Context) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a := b.current(c)
	if a == nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, a.user)
}

func (b *Backend) handleUpdateProfile(c *gin.Context) {
	var in domain.ProfileUpdate
	if !bind(c, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.current(c)
	email := normEmail(in.Email)
	for _, other := range b.accounts {
		if other != a && other.user.Email == email {
			fail(c, http.StatusBadRequest, "Email already in use")
			return
		}
	}
	a.user.Name = strings.TrimSpace(in.Name)
	a.user.Email = email
	c.JSON(http.StatusOK, a.user)
}

type addressBody struct {
	domain.Address
	Index *int `json:"index"`
}

func (b *Backend) handleSaveAddress(c *gin.Context) {
	var in addressBody
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := domain.Validate(in.Address); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.current(c)
	switch {
	case in.Index == nil:
		a.user.Addresses = append(a.user.Addresses, in.Address)
	case *in.Index >= 0 && *in.Index < len(a.user.Addresses):
		a.user.Addresses[*in.Index] = in.Address
	default:
		fail(c, http.StatusBadRequest, "Invalid address index")
		return
	}
	c.JSON(http.StatusOK, a.user)
}

type indexBody struct {
	Index *int `json:"index"`
}

func (b *Backend) indexArg(c *gin.Context, a *account) (int, bool) {
	var in indexBody
	if err := c.ShouldBindJSON(&in); err != nil || in.Index == nil {
		fail(c, http.StatusBadRequest, "index is required")
		return 0, false
	}
	if *in.Index < 0 || *in.Index >= len(a.user.Addresses) {
		fail(c, http.StatusBadRequest, "Invalid address index")
		return 0, false
	}
	return *in.Index, true
}

func (b *Backend) handleDeleteAddress(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.current(c)
	i, ok := b.indexArg(c, a)
	if !ok {
		return
	}
	a.user.Addresses = append(a.user.Addresses[:i], a.user.Addresses[i+1:]...)
	switch {
	case len(a.user.Addresses) == 0:
		a.user.DefaultAddressIndex = 0
	case a.user.DefaultAddressIndex == i:
		a.user.DefaultAddressIndex = 0
	case a.user.DefaultAddressIndex > i:
		a.user.DefaultAddressIndex--
	}
	c.JSON(http.StatusOK, a.user)
}

func (b *Backend) handleSetDefaultAddress(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.current(c)
	i, ok := b.indexArg(c, a)
	if !ok {
		return
	}
	a.user.DefaultAddressIndex = i
	c.JSON(http.StatusOK, a.user)
}
