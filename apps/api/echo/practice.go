package echoapi

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core/practice"
)

type (
	// identifiers are checked by the gateway, so that malformed ones map to InvalidIdentifier.
	activityRequest struct {
		UserID    int `json:"user_id" validate:"required"`
		SectionID int `json:"section_id"`
	}

	sessionRequest struct {
		UserID       int    `json:"user_id" validate:"required"`
		ActivityUUID string `json:"activity_uuid"`
		ResponseUUID string `json:"response_uuid"`
	}

	answerRequest struct {
		sessionRequest
		Answers map[string]string `json:"answers"`
	}
)

func (r sessionRequest) ids() practice.SessionIDs {
	return practice.SessionIDs{ActivityUUID: r.ActivityUUID, ResponseUUID: r.ResponseUUID}
}

// answers are sent to the provider as form fields.
func (r answerRequest) form() url.Values {
	form := make(url.Values, len(r.Answers))
	for k, v := range r.Answers {
		form.Set(k, v)
	}
	return form
}

type practiceApi struct {
	gw       *practice.Gateway
	validate *validator.Validate
}

func registerPracticeAPI(g *echo.Group, gw *practice.Gateway, validate *validator.Validate) {
	api := practiceApi{
		gw:       gw,
		validate: validate,
	}

	ag := g.Group("/activity")
	ag.POST("", api.createActivity)
	ag.POST("/answer", api.submitAnswer)
	ag.POST("/next", api.nextQuestion)
	ag.POST("/retry", api.retry)
}

func (api *practiceApi) createActivity(ctx echo.Context) error {
	var data activityRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to activityRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	resp, err := api.gw.CreateActivity(ctx.Request().Context(), data.UserID, data.SectionID)
	if err != nil {
		return errors.Wrap(err, "creating activity")
	}
	return relay(ctx, resp)
}

func (api *practiceApi) submitAnswer(ctx echo.Context) error {
	var data answerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to answerRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	resp, err := api.gw.SubmitAnswer(ctx.Request().Context(), data.UserID, data.ids(), data.form())
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return relay(ctx, resp)
}

func (api *practiceApi) nextQuestion(ctx echo.Context) error {
	var data sessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to sessionRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	resp, err := api.gw.NextQuestion(ctx.Request().Context(), data.UserID, data.ids())
	if err != nil {
		return errors.Wrap(err, "getting next question")
	}
	return relay(ctx, resp)
}

func (api *practiceApi) retry(ctx echo.Context) error {
	var data sessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to sessionRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	resp, err := api.gw.Retry(ctx.Request().Context(), data.UserID, data.ids())
	if err != nil {
		return errors.Wrap(err, "retrying activity")
	}
	return relay(ctx, resp)
}

// relay writes the provider's response unchanged, whatever its status.
func relay(ctx echo.Context, resp practice.RawResponse) error {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return ctx.Blob(resp.StatusCode, contentType, resp.Body)
}
