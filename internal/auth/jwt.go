package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/academy-edu/auth-service/internal/config"
	"github.com/academy-edu/auth-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the only supported claims shape for this service: the registered
// claims plus the user id, a single role, and a human-readable login timestamp.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string          `json:"user_id"`
	Role     models.UserRole `json:"role"`
	LoggedOn string          `json:"logged_on"`
}

// TokenIssuer creates signed HS256 bearer tokens from an immutable JWT
// configuration captured at startup.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		lifetime: cfg.Lifetime,
	}
}

// IssuedToken is the result of a successful token issuance.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// Issue creates a token for the given user identity. Expiry is always
// issuance time plus the configured lifetime.
func (ti *TokenIssuer) Issue(userID, username string, role models.UserRole) (*IssuedToken, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ti.lifetime)
	tokenID := uuid.New().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        tokenID,
			Issuer:    ti.issuer,
			Audience:  jwt.ClaimStrings{ti.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   userID,
		Role:     role,
		LoggedOn: now.Format(time.RFC1123),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{Token: signed, TokenID: tokenID, ExpiresAt: expiresAt}, nil
}

// Parse validates a token string and returns its claims. Signature method,
// issuer and audience are all enforced.
func (ti *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ti.secret, nil
	},
		jwt.WithIssuer(ti.issuer),
		jwt.WithAudience(ti.audience),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
