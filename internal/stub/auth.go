package stub

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// User is one demo account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
}

// Auth issues and checks the stub's session tokens.
type Auth struct {
	users  map[string]*User // keyed by lower-cased email
	byID   map[string]*User
	jwtKey []byte
	issuer string
	ttl    time.Duration
}

// NewAuth returns an empty account registry. A short key is replaced with a
// random one, which also means tokens die with the process.
func NewAuth(jwtKey []byte) *Auth {
	if len(jwtKey) < 32 {
		jwtKey = make([]byte, 32)
		_, _ = rand.Read(jwtKey)
	}
	return &Auth{
		users:  map[string]*User{},
		byID:   map[string]*User{},
		jwtKey: jwtKey,
		issuer: "snugstub",
		ttl:    24 * time.Hour,
	}
}

// AddUser registers a demo account. MinCost keeps boot fast; these are
// throwaway dev credentials.
func (a *Auth) AddUser(id, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u := &User{ID: id, Email: strings.ToLower(strings.TrimSpace(email)), Name: name, PasswordHash: hash}
	a.users[u.Email] = u
	a.byID[u.ID] = u
	return nil
}

// UserByID looks an account up by its identifier.
func (a *Auth) UserByID(id string) (*User, bool) {
	u, ok := a.byID[id]
	return u, ok
}

// Login checks credentials and returns the matching account.
func (a *Auth) Login(email, password string) (*User, bool) {
	u, ok := a.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

// IssueToken signs a session token for a user.
func (a *Auth) IssueToken(u *User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": u.ID,
		"iss": a.issuer,
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.jwtKey)
}

// ParseToken verifies a token and returns the account it belongs to.
func (a *Auth) ParseToken(tok string) (*User, error) {
	if tok == "" {
		return nil, errors.New("missing token")
	}
	t, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
		return a.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("bad claims")
	}
	sub, _ := claims["sub"].(string)
	u, ok := a.byID[sub]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return u, nil
}

type ctxKey int

const userKey ctxKey = iota

// RequireAuth guards an endpoint. The token rides the Authorization header,
// or the token query parameter for websocket dials.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tok string
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = strings.TrimPrefix(h, "Bearer ")
		} else {
			tok = r.URL.Query().Get("token")
		}
		u, err := a.ParseToken(tok)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "log in first")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// CurrentUser returns the authenticated account RequireAuth attached.
func CurrentUser(r *http.Request) *User {
	u, _ := r.Context().Value(userKey).(*User)
	return u
}
