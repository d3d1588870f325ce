package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	appsession "nerdhub/internal/session"
	"nerdhub/internal/transport/http/dto/response"
)

const (
	CookieSessionName = "session"
	CookieTokenKey    = "token"
)

// RequireLogin lets a request through only while someone is logged in and the
// cookie carries the token issued by that login. A cookie from an earlier
// login (or another account) is refused.
func RequireLogin(active *appsession.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := active.Token()
			if token == "" {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthRequired)
			}

			sess, err := session.Get(CookieSessionName, c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthRequired)
			}

			got, _ := sess.Values[CookieTokenKey].(string)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, response.ErrAuthRequired)
			}

			return next(c)
		}
	}
}
