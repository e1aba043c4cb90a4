package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/store"
)

type entryApi struct {
	store    *store.Store
	validate *validator.Validate
}

func registerEntryAPI(g *echo.Group, jwt echo.MiddlewareFunc, st *store.Store, validate *validator.Validate) {
	api := entryApi{
		store:    st,
		validate: validate,
	}

	eg := g.Group("/entries", jwt)
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/categories", api.queryCategories)
	eg.GET("/:id", api.retrieve)
	eg.PATCH("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
	eg.POST("/:id/complete", api.complete)
	eg.POST("/:id/uncomplete", api.uncomplete)
}

// Handlers

// query lists the entries of `user_id` (the authenticated user by default), in store order.
func (api *entryApi) query(ctx echo.Context) error {
	filter := calendar.QueryFilter{
		UserID:       ctx.QueryParam("user_id"),
		Day:          ctx.QueryParam("day"),
		Category:     ctx.QueryParam("category"),
		Completed:    boolParam(ctx, "completed"),
		PushNotified: boolParam(ctx, "push_notified"),
	}
	if filter.UserID == "" {
		filter.UserID = contextSubject(ctx)
	}

	entries, err := api.store.Entries(filter)
	if err != nil {
		return errors.Wrap(err, "querying entries")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *entryApi) create(ctx echo.Context) error {
	var data calendar.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	if data.UserID == "" {
		data.UserID = contextSubject(ctx)
	}

	e, err := api.store.AddCalendarEntry(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *entryApi) queryCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, calendar.AllCategories)
}

func (api *entryApi) retrieve(ctx echo.Context) error {
	e, err := api.store.EntryByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *entryApi) update(ctx echo.Context) error {
	var data calendar.UpdateEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}

	e, err := api.store.UpdateCalendarEntry(ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *entryApi) destroy(ctx echo.Context) error {
	if err := api.store.RemoveCalendarEntry(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entryApi) complete(ctx echo.Context) error {
	var data CompleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteRequest")
	}

	e, err := api.store.CompleteCalendarEntry(ctx.Param("id"), data.CompletedTime)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *entryApi) uncomplete(ctx echo.Context) error {
	e, err := api.store.UncompleteCalendarEntry(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

// boolParam returns nil if the query param is missing or invalid.
func boolParam(ctx echo.Context, name string) *bool {
	b, err := strconv.ParseBool(ctx.QueryParam(name))
	if err != nil {
		return nil
	}
	return &b
}

type CompleteRequest struct {
	CompletedTime string `json:"completed_time"`
}
