package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tasktrack/internal/errors"
	"tasktrack/internal/handler"
	"tasktrack/internal/middleware"
)

// Register wires routes and middleware. Every route behind the session gate
// sees the resolved user in its context; everything else is public.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
	resolver middleware.SessionResolver,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.HTTPErrorHandler = EnvelopeErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/users", userHandler.Register)
	e.POST("/users/login", userHandler.Login)

	// Secured routes
	secured := e.Group("", middleware.RequireSession(resolver))
	secured.GET("/users/me", userHandler.Me)
	secured.DELETE("/users/me/token", userHandler.Logout)
	secured.GET("/todos", taskHandler.List)
	secured.POST("/todos", taskHandler.Create)
	secured.GET("/todos/:id", taskHandler.Get)
	secured.PATCH("/todos/:id", taskHandler.Update)
	secured.DELETE("/todos/:id", taskHandler.Delete)
}

// EnvelopeErrorHandler renders every error as the uniform {data, error}
// envelope. No error escapes as a bare message or crashes the process.
func EnvelopeErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := errors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch msg := he.Message.(type) {
		case errors.ErrorResponse:
			resp = msg
		case string:
			resp = errors.ErrorResponse{Error: msg, Code: statusCode(status)}
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errors.Fail(resp))
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
