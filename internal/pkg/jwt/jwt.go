package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("invalid token claims")

// Claims is the session carried by an access token.
type Claims struct {
	UserName   string
	Role       user.Role
	Title      string
	FirstLogin bool
	TokenID    string
	ExpiresAt  time.Time
}

type Service interface {
	GenerateAccessToken(u user.User) (token string, claims Claims, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(tokenID string, expiresAt time.Time)
	IsTokenRevoked(tokenID string) bool
	PruneRevokedTokens() int
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

var _ Service = (*JWTService)(nil)

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) *JWTService {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (string, Claims, error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", Claims{}, err
	}

	claims := Claims{
		UserName:   u.Name,
		Role:       u.Role,
		Title:      u.Title,
		FirstLogin: u.FirstLogin,
		TokenID:    uuid.NewString(),
		ExpiresAt:  j.now().Add(expDuration).Truncate(time.Second),
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_name":   claims.UserName,
		"role":        string(claims.Role),
		"title":       claims.Title,
		"first_login": claims.FirstLogin,
		"type":        TokenTypeAccess,
		"jti":         claims.TokenID,
		"exp":         claims.ExpiresAt.Unix(),
	})
	return tokenString, claims, err
}

// RevokeToken blocks tokenID until it would have expired anyway.
func (j *JWTService) RevokeToken(tokenID string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()
	j.revokedTokens[tokenID] = expiresAt.Unix()
}

// PruneRevokedTokens drops revocations whose tokens have expired and returns
// how many were removed.
func (j *JWTService) PruneRevokedTokens() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.pruneLocked()
}

func (j *JWTService) pruneLocked() int {
	now := j.now().Unix()
	pruned := 0
	for id, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, id)
			pruned++
		}
	}
	return pruned
}

func (j *JWTService) IsTokenRevoked(tokenID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[tokenID]
	return revoked
}

// ClaimsFromMap reads the access token claims decoded by jwtauth.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	if t, _ := m["type"].(string); t != TokenTypeAccess {
		return Claims{}, ErrInvalidClaims
	}

	var c Claims
	var ok bool
	if c.UserName, ok = m["user_name"].(string); !ok || c.UserName == "" {
		return Claims{}, ErrInvalidClaims
	}
	if c.TokenID, ok = m["jti"].(string); !ok || c.TokenID == "" {
		return Claims{}, ErrInvalidClaims
	}
	role, _ := m["role"].(string)
	c.Role = user.ParseRole(role)
	c.Title, _ = m["title"].(string)
	c.FirstLogin, _ = m["first_login"].(bool)

	switch exp := m["exp"].(type) {
	case time.Time:
		c.ExpiresAt = exp
	case float64:
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return c, nil
}
