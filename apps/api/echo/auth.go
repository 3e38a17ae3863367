package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/user"
)

const contextUserKey = "user"

// basicAuth authenticates requests with the email and password of an LMS user.
func basicAuth(svc *user.Service) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "LMS",
		Validator: func(email, pwd string, ctx echo.Context) (bool, error) {
			usr, err := svc.Authenticate(ctx.Request().Context(), email, pwd)
			if err != nil {
				if errors.Is(err, user.ErrInvalidCredentials) {
					return false, nil
				}
				return false, errors.Wrap(err, "authenticating")
			}
			ctx.Set(contextUserKey, usr)
			return true, nil
		},
	})
}

// contextUser returns the authenticated user, or the zero User.
func contextUser(ctx echo.Context) user.User {
	usr, _ := ctx.Get(contextUserKey).(user.User)
	return usr
}
