package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"tasktrack/internal/errors"
	"tasktrack/internal/model"
)

// Claims is the signed payload carried by a session token: the owning user
// and a purpose tag. There is no expiry claim; sessions end by explicit
// revocation, never by time.
type Claims struct {
	UserID string `json:"user_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session claims. Verification here
// is signature-only; revocation is layered on top by the identity service,
// which additionally requires the token to be present in the user's live
// token list.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue produces a signed auth token for the user.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	claims := &Claims{
		UserID: userID.String(),
		Access: model.AccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and purpose tag and returns the embedded user id.
// Any failure collapses to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Access != model.AccessAuth {
		return uuid.Nil, errors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidToken
	}
	return userID, nil
}
