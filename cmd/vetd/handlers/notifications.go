package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	apierr "github.com/opst/vettracker/pkg/api/errors"
	apinotif "github.com/opst/vettracker/pkg/api/types/notifications"
	"github.com/opst/vettracker/pkg/auth/middleware"
	"github.com/opst/vettracker/pkg/domain"
	knotification "github.com/opst/vettracker/pkg/domain/notification/db"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/utils"
)

// DefaultNotificationLimit is the number of notifications listed at once by default.
const DefaultNotificationLimit = 50

// ListNotificationsHandler lists my notifications, newest first.
//
// Query parameters: "unread" (bool) and "limit" (int).
func ListNotificationsHandler(notifications knotification.NotificationInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := notifications.List(
			c.Request().Context(),
			principalOf(c).Recipient(),
			queryBool(c, "unread"),
			queryInt(c, "limit", DefaultNotificationLimit),
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, utils.Map(found, apinotif.Compose))
	}
}

// MarkReadHandler marks my notifications as read. Without ids, all of them are marked.
func MarkReadHandler(notifications knotification.NotificationInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apinotif.MarkRead)
		if err := bind(c, req); err != nil {
			return err
		}
		n, err := notifications.MarkRead(c.Request().Context(), principalOf(c).Recipient(), req.Ids)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, apinotif.Marked{Marked: n})
	}
}

// NotificationSocketHandler serves realtime events over websocket.
//
// Clients authenticate as usual, or with a "token" query parameter since browsers cannot set headers on websockets.
// Sessions end when the connection is closed or ctx is done.
func NotificationSocketHandler(
	ctx context.Context,
	hub *notification.Hub, sender notification.Sender, verifier middleware.Verifier,
	upgrader *websocket.Upgrader, config notification.SessionConfig,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.PrincipalOf(c)
		if !ok {
			tok := c.QueryParam("token")
			if tok == "" {
				return apierr.Unauthorized("login required", nil)
			}
			var err error
			if p, err = verifier.Verify(tok); err != nil {
				return apierr.Unauthorized("invalid credential", err)
			}
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// the upgrader has responded already.
			c.Logger().Warnf("websocket upgrade for %s: %v", describe(p), err)
			return nil
		}
		c.Logger().Infof("websocket session of %s starts", describe(p))
		notification.Serve(ctx, conn, hub, sender, p, c.Logger(), config)
		c.Logger().Infof("websocket session of %s ends", describe(p))
		return nil
	}
}

func describe(p domain.Principal) string {
	return p.Role.String() + ":" + p.Name
}
