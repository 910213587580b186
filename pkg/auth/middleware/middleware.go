// Package middleware authenticates requests to echo handlers.
package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	"github.com/opst/vettracker/pkg/auth/token"
	"github.com/opst/vettracker/pkg/domain"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "vt_session"

const principalKey = "vettracker.principal"

// Verifier verifies tokens into principals.
type Verifier interface {
	Verify(token string) (domain.Principal, error)
}

var _ Verifier = &token.Issuer{}

// credential is the token of the request if any, and whether it came from the session cookie.
//
// Authorization: Bearer has priority over the session cookie.
func credential(c echo.Context) (string, bool) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok), false
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value, true
	}
	return "", false
}

// Authenticate sets the principal of the request when it has a credential.
//
// Requests without credentials pass through anonymously.
// An invalid Bearer token is 401. An invalid session cookie is cleared
// and the request passes through anonymously, so that stale browsers can
// still reach login and public pages.
func Authenticate(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, fromCookie := credential(c)
			if tok == "" {
				return next(c)
			}
			p, err := v.Verify(tok)
			if err != nil {
				if !fromCookie {
					return apierr.Unauthorized("invalid credential", err)
				}
				c.Logger().Debugf("session cookie discarded: %v", err)
				c.SetCookie(ExpiredSessionCookie(c.IsTLS()))
				return next(c)
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// Require rejects requests without principal (401) or with a role not in roles (403).
//
// Without roles, any authenticated principals are allowed.
func Require(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalOf(c)
			if !ok {
				return apierr.Unauthorized("login required", nil)
			}
			if len(roles) != 0 && !slices.Contains(roles, p.Role) {
				return apierr.Forbidden("not allowed for " + p.Role.String())
			}
			return next(c)
		}
	}
}

func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalOf returns the principal authenticated by Authenticate.
func PrincipalOf(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// NewSessionCookie is the session cookie carrying tok, expiring at exp.
//
// When persistent is false, it is a browser-session cookie.
func NewSessionCookie(tok string, exp time.Time, persistent bool, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if persistent {
		cookie.Expires = exp
	}
	return cookie
}

// ExpiredSessionCookie removes the session cookie.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
