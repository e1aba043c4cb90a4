package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/store"
	"github.com/trezcool/onestop/core/user"
)

type userApi struct {
	store    *store.Store
	auth     *jwtAuth
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *jwtAuth, st *store.Store, validate *validator.Validate) {
	api := userApi{
		store:    st,
		auth:     auth,
		validate: validate,
	}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/register", api.register)
	ug.POST("/login", api.login)
	ug.GET("/exists", api.exists)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/logout", api.logout)
	ag.POST("/token-refresh", api.refreshToken)
	ag.GET("", api.query)
	ag.GET("/roles", api.queryRoles)
	ag.GET("/me", api.me)
	ag.GET("/:id", api.retrieve)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	added, err := api.store.AddUser(data)
	if err != nil {
		return err
	}
	if !added {
		return api.conflict(data)
	}

	usr, err := api.store.UserByEmail(data.Email)
	if err != nil {
		return errors.Wrap(err, "finding user by email")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

// conflict reports which unique field of a rejected registration is taken.
func (api *userApi) conflict(data user.NewUser) error {
	exists, err := api.store.UserExists(data.Email)
	if err != nil {
		return errors.Wrap(err, "checking email")
	}
	if exists {
		return core.NewValidationError(user.ErrEmailExists, core.FieldError{Field: "email", Error: user.ErrEmailExists.Error()})
	}
	return core.NewValidationError(user.ErrIDExists, core.FieldError{Field: "user_id", Error: user.ErrIDExists.Error()})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.LoginUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ok, err := api.store.AuthenticateUser(data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	if !ok {
		return errAuthenticationFailed
	}

	usr, ok := api.store.CurrentUser()
	if !ok {
		return errAuthenticationFailed
	}
	token, err := api.auth.generateToken(api.auth.newClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) logout(ctx echo.Context) error {
	api.store.Logout()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx, api.store)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	usr, err := api.auth.contextUser(ctx, api.store)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) exists(ctx echo.Context) error {
	exists, err := api.store.UserExists(ctx.QueryParam("email"))
	if err != nil {
		return errors.Wrap(err, "checking user existence")
	}
	return ctx.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.store.Users()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx, api.store)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.store.UserByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

type (
	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	ExistsResponse struct {
		Exists bool `json:"exists"`
	}
)
