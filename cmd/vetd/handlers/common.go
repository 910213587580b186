// Package handlers are echo handlers of vetd.
//
// Each handler factory takes the interfaces it needs, and returns an echo.HandlerFunc.
package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	"github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/domain"
	kerr "github.com/opst/vettracker/pkg/domain/errors"
	"github.com/opst/vettracker/pkg/imagestore"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/utils/echoutil"
)

// Clock tells the current time.
type Clock func() time.Time

// Notifier notifies users and broadcasts events.
type Notifier interface {
	Notify(ctx context.Context, recipient domain.Recipient, kind domain.NotificationKind, message string) (domain.Notification, error)
	Broadcast(ctx context.Context, ev notification.Event)
}

var _ Notifier = &notification.Notifier{}

// ImageField is the name of multipart fields of uploaded images.
const ImageField = "imgFile"

// bind reads the request into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apierr.BadRequest("can not understand the request", err)
	}
	if err := c.Validate(req); err != nil {
		return apierr.BadRequest(echoutil.Describe(err), err)
	}
	return nil
}

// pathId reads a path parameter as an id.
func pathId(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apierr.NotFound()
	}
	return id, nil
}

// queryInt reads a query parameter as an int. Missing or malformed values are def.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

func queryBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.QueryParam(name))
	return b
}

// principalOf is the principal of the request. Routes guarded by middleware.Require always have one.
func principalOf(c echo.Context) domain.Principal {
	p, _ := middleware.PrincipalOf(c)
	return p
}

// actor is the name recorded as CreatedBy or UpdatedBy.
func actor(c echo.Context) string {
	if p, ok := middleware.PrincipalOf(c); ok && p.Name != "" {
		return p.Name
	}
	return "system"
}

// dbError converts errors from databases into responses.
func dbError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, kerr.ErrMissing):
		return apierr.NotFound()
	case errors.Is(err, kerr.ErrConflict):
		return apierr.Conflict("conflicting with an existing one", apierr.WithError(err))
	case errors.Is(err, kerr.ErrInUse):
		return apierr.Conflict(
			"it is in use", apierr.WithAdvice("remove things referring it first."), apierr.WithError(err),
		)
	default:
		return apierr.InternalServerError(err)
	}
}

// referenceError is dbError for writes referring other entities.
//
// Missing referents are bad requests.
func referenceError(err error, what string) *echo.HTTPError {
	if errors.Is(err, kerr.ErrMissing) {
		return apierr.BadRequest(what+" is not found", err)
	}
	return dbError(err)
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseDateTime reads timestamps in RFC3339 or "datetime-local" formats.
//
// Timestamps without offsets are in loc.
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// uploadImage saves the image uploaded as ImageField.
//
// When no images are uploaded, it returns "" without errors.
func uploadImage(c echo.Context, store imagestore.Store) (string, error) {
	fh, err := c.FormFile(ImageField)
	if err != nil {
		return "", nil
	}
	if err := imagestore.Accept(fh.Filename, fh.Size); err != nil {
		return "", apierr.BadRequest(err.Error(), err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", apierr.BadRequest("can not read the uploaded image", err)
	}
	defer f.Close()

	url, err := store.Save(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return "", apierr.InternalServerError(err)
	}
	return url, nil
}

// discardImage deletes an image no longer used. Failures are logged only.
func discardImage(c echo.Context, store imagestore.Store, url string) {
	if err := store.Delete(c.Request().Context(), url); err != nil {
		c.Logger().Warnf("image %s is not deleted: %v", url, err)
	}
}
