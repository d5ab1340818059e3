package handler

import (
	"net/http"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/labstack/echo/v4"
)

type SessionReader interface {
	GetSession(echo.Context) (*service.Session, error)
}

// SessionMiddleware resolves the session cookie into the request context.
// An absent or undecodable cookie leaves the request anonymous; route
// groups that require identity enforce it with IsAuthenticated.
func SessionMiddleware(sessionService SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session, err := sessionService.GetSession(c); err == nil {
				c.Set("session", session)
			}
			return next(c)
		}
	}
}

func IsAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if getCtxSession(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return next(c)
	}
}
