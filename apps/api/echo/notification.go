package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core/store"
)

type notificationApi struct {
	store *store.Store
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, st *store.Store) {
	api := notificationApi{store: st}

	ng := g.Group("/notifications", jwt)
	ng.GET("/pending", api.pending)
	ng.POST("/send", api.send)
}

// pending lists the un-notified entries of the session user.
func (api *notificationApi) pending(ctx echo.Context) error {
	entries, err := api.store.PendingNotifications()
	if err != nil {
		return errors.Wrap(err, "querying pending notifications")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *notificationApi) send(ctx echo.Context) error {
	n, err := api.store.SendPushNotifications(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "sending push notifications")
	}
	return ctx.JSON(http.StatusOK, NotifiedResponse{Notified: n})
}

type NotifiedResponse struct {
	Notified int `json:"notified"`
}
