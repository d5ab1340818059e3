package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/7174Andy/gitcron/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSessionMiddleware(t *testing.T) {
	t.Run("success - decoded session is set on the context", func(t *testing.T) {
		// arrange
		session := testSession()
		mockSessions := new(testutil.MockSessionService)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		mockSessions.On("GetSession", c).Return(session, nil)

		next := func(c echo.Context) error {
			assert.Equal(t, session, getCtxSession(c))
			return c.NoContent(http.StatusOK)
		}

		// act
		err := SessionMiddleware(mockSessions)(next)(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("success - undecodable cookie leaves the request anonymous", func(t *testing.T) {
		// arrange
		mockSessions := new(testutil.MockSessionService)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		mockSessions.On("GetSession", c).Return(nil, errors.New("no session cookie"))

		next := func(c echo.Context) error {
			assert.Nil(t, getCtxSession(c))
			return c.NoContent(http.StatusOK)
		}

		// act
		err := SessionMiddleware(mockSessions)(next)(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestIsAuthenticated(t *testing.T) {
	t.Run("success - authenticated request reaches the handler", func(t *testing.T) {
		// arrange
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("session", testSession())

		next := func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}

		// act
		err := IsAuthenticated(next)(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("failure - anonymous request is unauthorized", func(t *testing.T) {
		// arrange
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		// act
		err := IsAuthenticated(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)

		// assert
		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
