package application

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// tokenClaims extends the registered JWT claims with the token's intended
// use, so a refresh token can never authenticate a request and vice versa.
type tokenClaims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256-signed access and refresh tokens.
// The subject is the numeric user id; every token carries a uuid jti so
// individual refresh tokens can be revoked.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager from the shared signing secret and the
// two token lifetimes.
func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

type issuedToken struct {
	signed    string
	jti       string
	expiresAt time.Time
}

func (m *TokenManager) issueAccess(userID int64) (issuedToken, error) {
	return m.issue(userID, tokenUseAccess, m.accessTTL)
}

func (m *TokenManager) issueRefresh(userID int64) (issuedToken, error) {
	return m.issue(userID, tokenUseRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(userID int64, use string, ttl time.Duration) (issuedToken, error) {
	now := m.now().UTC()
	expiresAt := now.Add(ttl)
	claims := tokenClaims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return issuedToken{}, fmt.Errorf("sign %s token: %w", use, err)
	}
	return issuedToken{signed: signed, jti: claims.ID, expiresAt: expiresAt}, nil
}

// verify parses the token, checks the signature and expiry, and ensures the
// token was issued for the expected use.
func (m *TokenManager) verify(token, expectedUse string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken(err)
	}
	if claims.TokenUse != expectedUse {
		return nil, errInvalidToken(fmt.Errorf("token use %q, expected %q", claims.TokenUse, expectedUse))
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errInvalidToken(errors.New("missing subject or jti"))
	}
	return claims, nil
}

func (c *tokenClaims) userID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, errInvalidToken(fmt.Errorf("subject %q is not a user id", c.Subject))
	}
	return id, nil
}
