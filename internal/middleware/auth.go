package middleware

import (
	"context"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"tasktrack/internal/errors"
	"tasktrack/internal/model"
)

const (
	// HeaderAuth is the request header carrying the session token.
	HeaderAuth = "x-auth"

	// Context keys for the resolved user and the raw token it presented.
	userContextKey  = "user"
	tokenContextKey = "token"
)

// SessionResolver resolves a raw bearer token to the user it belongs to,
// checking both the signature and the live token list.
type SessionResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// RequireSession gates a route group behind x-auth resolution. A missing
// header or a token the resolver rejects short-circuits with 401 before the
// handler runs. On success the user and raw token land in the request
// context. Resolution is never cached across requests.
func RequireSession(resolver SessionResolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  userContextKey,
		TokenLookup: "header:" + HeaderAuth,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			user, err := resolver.ResolveToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}
			c.Set(tokenContextKey, auth)
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// UserFromContext returns the user resolved by RequireSession.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

// TokenFromContext returns the raw token the current request presented.
func TokenFromContext(c echo.Context) string {
	token, _ := c.Get(tokenContextKey).(string)
	return token
}
