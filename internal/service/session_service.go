package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"

	"github.com/7174Andy/gitcron/internal"
	"github.com/7174Andy/gitcron/internal/settings"
)

// Session is the identity the OAuth collaborator established: the user and
// the GitHub access token granted at sign-in. The token here is the
// "session-derived" credential path; the dispatcher uses the encrypted copy
// stored on each schedule instead.
type Session struct {
	UserID      int64
	AccessToken string
}

type SessionService struct {
	s *securecookie.SecureCookie
}

func NewSessionService(hashKey, blockKey []byte) *SessionService {
	return &SessionService{
		s: securecookie.New(hashKey, blockKey),
	}
}

func (ss *SessionService) GetSession(c echo.Context) (*Session, error) {
	cookie, err := c.Cookie(internal.SessionCookie)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	if err := ss.s.Decode(internal.SessionCookie, cookie.Value, &values); err != nil {
		return nil, err
	}
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: userID, AccessToken: values["access_token"]}, nil
}

func (ss *SessionService) SetSessionCookie(c echo.Context, session *Session) error {
	return ss.setCookie(
		c,
		internal.SessionCookie,
		map[string]string{
			"user_id":      strconv.FormatInt(session.UserID, 10),
			"access_token": session.AccessToken,
		},
		"/",
		settings.Settings.Domain != "localhost",
		true,
		time.Now().UTC().Add(settings.Settings.SessionExpires),
		settings.Settings.Domain,
	)
}

func (ss *SessionService) RemoveSessionCookie(c echo.Context) {
	cookie := &http.Cookie{
		Name:     internal.SessionCookie,
		Value:    "",
		Path:     "/",
		Secure:   settings.Settings.Domain != "localhost",
		HttpOnly: true,
		Expires:  time.Now().UTC(),
		Domain:   settings.Settings.Domain,
	}
	c.SetCookie(cookie)
}

func (ss *SessionService) setCookie(
	c echo.Context,
	name string,
	values map[string]string,
	path string,
	secure, httpOnly bool,
	expires time.Time,
	domain string,
) error {
	encoded, err := ss.s.Encode(name, values)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     path,
		Secure:   secure,
		HttpOnly: httpOnly,
		Expires:  expires,
		Domain:   domain,
	}
	c.SetCookie(cookie)
	return nil
}
