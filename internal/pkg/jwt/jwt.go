package jwt

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie jwtauth.TokenFromCookie reads.
const CookieName = "jwt"

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	AccessTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearAccessTokenCookie() *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	secureCookie              bool
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, secureCookie bool) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		secureCookie:              secureCookie,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":        u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           string(u.Role),
		"email_verified": u.IsVerified(),
		"type":           TokenTypeAccess,
		"exp":            expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) AccessTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearAccessTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// RevokeToken remembers token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// ActorFromClaims rebuilds the caller identity from verified access token
// claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return user.Actor{}, ErrInvalidClaims
	}

	userID, _ := claims["user_id"].(string)
	role := user.Role(stringClaim(claims, "role"))
	if userID == "" || !role.Valid() {
		return user.Actor{}, ErrInvalidClaims
	}

	verified, _ := claims["email_verified"].(bool)
	return user.Actor{
		ID:       userID,
		Name:     stringClaim(claims, "name"),
		Role:     role,
		Verified: verified,
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}
