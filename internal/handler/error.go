package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/7174Andy/gitcron/internal/github"
	"github.com/7174Andy/gitcron/internal/service"
	"github.com/labstack/echo/v4"
)

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf(
			"handler internal error %s [%d]: %+v\n",
			c.Request().URL.Path, status, err,
		)
	}
	if err := c.JSON(status, echo.Map{"error": message}); err != nil {
		log.Printf("err returning json: %+v\n", err)
	}
}

func errorStatus(err error) (int, string) {
	var (
		httpErr      *echo.HTTPError
		invalidInput service.InvalidInputError
		notFound     service.NotFoundError
		invalidState service.InvalidStateError
		remote       github.RemoteAPIError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	case errors.As(err, &invalidInput):
		return http.StatusBadRequest, invalidInput.Message
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Message
	case errors.As(err, &invalidState):
		return http.StatusConflict, invalidState.Message
	case errors.As(err, &remote):
		return http.StatusBadGateway, "github api request failed"
	default:
		return http.StatusInternalServerError, "something went wrong"
	}
}

func newError(err error, status int, message string) error {
	e := echo.NewHTTPError(status, message)
	if err != nil {
		e = e.WithInternal(err)
	}
	return e
}
