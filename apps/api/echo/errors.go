package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/calendar"
	"github.com/trezcool/onestop/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Server errors are reported with the authenticated user, if any.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, auth *jwtAuth) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err, translator)

		if code == http.StatusInternalServerError {
			msg := http.StatusText(code)
			logger.Error(msg, errors.Wrap(err, msg), auth.reportedUser(ctx))
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

// errorResponse maps err to a status code and a response body.
func errorResponse(err error, translator ut.Translator) (int, interface{}) {
	var (
		vErrs   validator.ValidationErrors
		vErr    *core.ValidationError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.Is(err, middleware.ErrJWTMissing):
		return http.StatusUnauthorized, middleware.ErrJWTMissing.Message

	case errors.As(err, &vErrs):
		return http.StatusBadRequest, core.TranslateErrors(vErrs, translator)

	case errors.As(err, &vErr):
		if len(vErr.Fields) == 0 {
			return http.StatusBadRequest, vErr.Error()
		}
		fldErrs := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return http.StatusBadRequest, fldErrs

	case errors.Is(err, calendar.ErrNotFound):
		return http.StatusNotFound, calendar.ErrNotFound.Error()

	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound, user.ErrNotFound.Error()

	case errors.As(err, &httpErr):
		if internal, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = internal
		}
		return httpErr.Code, httpErr.Message
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// reportedUser returns the identity carried by the JWT of the request, for error reports.
func (a *jwtAuth) reportedUser(ctx echo.Context) user.User {
	var usr user.User
	if claims, err := a.contextClaims(ctx); err == nil {
		usr.ID = claims.Subject
		usr.Name = claims.Name
		usr.Email = claims.Email
	}
	return usr
}
