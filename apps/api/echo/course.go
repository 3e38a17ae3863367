package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
)

type courseApi struct {
	svc      *course.Service
	validate *validator.Validate
}

// registerCourseAPI mounts the routes at the root, so mw is attached per route.
func registerCourseAPI(e *echo.Echo, svc *course.Service, validate *validator.Validate, mw ...echo.MiddlewareFunc) {
	api := courseApi{
		svc:      svc,
		validate: validate,
	}

	e.GET("/courses", api.queryCourses, mw...)
	e.POST("/assignments", api.assign, mw...)
	e.GET("/assignments", api.queryAssignments, mw...)
}

func (api *courseApi) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) assign(ctx echo.Context) error {
	var data course.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	asg, err := api.svc.Assign(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "assigning course")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

type assignmentsQuery struct {
	UserID int `query:"user_id" json:"user_id" validate:"required,min=1"`
}

func (api *courseApi) queryAssignments(ctx echo.Context) error {
	var query assignmentsQuery
	if err := ctx.Bind(&query); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "must be an integer"})
	}
	if err := api.validate.Struct(query); err != nil {
		return err
	}

	asgs, err := api.svc.QueryAssignments(ctx.Request().Context(), query.UserID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if asgs == nil {
		asgs = []course.Assignment{}
	}
	return ctx.JSON(http.StatusOK, asgs)
}
