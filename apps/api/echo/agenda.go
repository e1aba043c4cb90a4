package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core/store"
)

type agendaApi struct {
	store *store.Store
}

func registerAgendaAPI(g *echo.Group, jwt echo.MiddlewareFunc, st *store.Store) {
	api := agendaApi{store: st}

	g.GET("/agenda", api.agenda, jwt)
	g.GET("/agenda/marks", api.marks, jwt)
	g.GET("/agenda.ics", api.export, jwt)
}

// agendaUserID returns the `user_id` query param, defaulting to the authenticated user.
func agendaUserID(ctx echo.Context) string {
	if id := ctx.QueryParam("user_id"); id != "" {
		return id
	}
	return contextSubject(ctx)
}

func (api *agendaApi) agenda(ctx echo.Context) error {
	days, err := api.store.Agenda(agendaUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "building agenda")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *agendaApi) marks(ctx echo.Context) error {
	marks, err := api.store.MarkedDates(agendaUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "marking dates")
	}
	return ctx.JSON(http.StatusOK, marks)
}

func (api *agendaApi) export(ctx echo.Context) error {
	feed, err := api.store.ExportICS(agendaUserID(ctx))
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="agenda.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
