package handler

import (
	"github.com/7174Andy/gitcron/internal/service"
	"github.com/labstack/echo/v4"
)

func getCtxSession(c echo.Context) *service.Session {
	if s, ok := c.Get("session").(*service.Session); ok {
		return s
	}
	return nil
}
