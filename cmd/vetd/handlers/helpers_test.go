package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/auth/password"
	"github.com/opst/vettracker/pkg/domain"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/utils/echoutil"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

var jst = time.FixedZone("JST", 9*60*60)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = echoutil.NewValidator()
	return e
}

// as sets the principal of the request.
func as(c echo.Context, role domain.Role, id int, name string) echo.Context {
	middleware.SetPrincipal(c, domain.Principal{Role: role, UserId: id, Name: name})
	return c
}

func withParam(c echo.Context, name string, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

// assertHTTPError fails unless err is an echo.HTTPError with the status code.
func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var herr *echo.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
	}
	if herr.Code != code {
		t.Errorf("status code: (actual, expected) = (%d, %d): %v", herr.Code, code, err)
	}
}

type issued struct {
	Principal domain.Principal
	TTL       time.Duration
}

type fakeIssuer struct {
	expiry time.Time
	calls  []issued
}

func (f *fakeIssuer) Issue(p domain.Principal, ttl time.Duration) (string, time.Time, error) {
	f.calls = append(f.calls, issued{Principal: p, TTL: ttl})
	return fmt.Sprintf("token-for-%s-%d", p.Role, p.UserId), f.expiry, nil
}

type notified struct {
	Recipient domain.Recipient
	Kind      domain.NotificationKind
	Message   string
}

type fakeNotifier struct {
	mu         sync.Mutex
	notified   []notified
	broadcasts []notification.Event
	err        error
}

func (f *fakeNotifier) Notify(_ context.Context, r domain.Recipient, kind domain.NotificationKind, msg string) (domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, notified{Recipient: r, Kind: kind, Message: msg})
	if f.err != nil {
		return domain.Notification{}, f.err
	}
	return domain.Notification{Id: len(f.notified), Recipient: r, Kind: kind, Message: msg}, nil
}

func (f *fakeNotifier) Broadcast(_ context.Context, ev notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, ev)
}

// fakeImages keeps images in memory. Saved images are named "/uploads/{n}-{filename}".
type fakeImages struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: map[string][]byte{}}
}

func (f *fakeImages) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("/uploads/%d-%s", len(f.saved)+1, filename)
	f.saved[url] = buf.Bytes()
	return url, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}
