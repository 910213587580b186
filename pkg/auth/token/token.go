// Package token issues and verifies JWTs carrying a domain.Principal.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opst/vettracker/pkg/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims of vettracker tokens.
//
// Subject is "{role}:{uid}".
type Claims struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	Uid  int         `json:"uid"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() domain.Principal {
	return domain.Principal{Role: c.Role, UserId: c.Uid, Name: c.Name}
}

type Issuer struct {
	Issuer   string
	Audience string
	Secret   []byte

	// now is time.Now, replaced in tests.
	now func() time.Time
}

func New(issuer, audience string, secret []byte) *Issuer {
	return &Issuer{Issuer: issuer, Audience: audience, Secret: secret, now: time.Now}
}

// WithClock replaces the clock of the issuer.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{Issuer: i.Issuer, Audience: i.Audience, Secret: i.Secret, now: now}
}

func (i *Issuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// Issue signs a token for p, valid for ttl.
//
// It returns the token and its expiry.
func (i *Issuer) Issue(p domain.Principal, ttl time.Duration) (string, time.Time, error) {
	if len(i.Secret) == 0 {
		return "", time.Time{}, errors.New("token: secret is empty")
	}
	now := i.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		Name: p.Name,
		Role: p.Role,
		Uid:  p.UserId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Issuer,
			Subject:   fmt.Sprintf("%s:%s", p.Role, strconv.Itoa(p.UserId)),
			Audience:  jwt.ClaimStrings{i.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses token and returns its principal.
//
// Tokens which are malformed, expired, signed with another key or
// issued for another issuer or audience are ErrInvalidToken.
func (i *Issuer) Verify(token string) (domain.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) { return i.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(i.Issuer),
		jwt.WithAudience(i.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return domain.Principal{}, errors.Join(ErrInvalidToken, err)
	}
	if _, err := domain.AsRole(string(claims.Role)); err != nil {
		return domain.Principal{}, errors.Join(ErrInvalidToken, err)
	}
	return claims.Principal(), nil
}
