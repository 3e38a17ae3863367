package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/practice"
	"github.com/trezcool/masomo-lms/core/user"
)

const (
	msgIntegrationUnavailable = "siyavula integration unavailable"
	msgProviderRejected       = "siyavula rejected the request credentials"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var pErr *practice.Error
		switch {
		case errors.As(err, &pErr):
			code, message = practiceStatus(pErr)
			if code >= http.StatusInternalServerError {
				logger.Warn("practice request failed", err, contextUser(ctx))
			}
		case errors.Is(err, user.ErrEmailExists), errors.Is(err, course.ErrAssignmentExists):
			code = http.StatusConflict
			message = errors.Cause(unwrapValidation(err)).Error()
		case errors.Is(err, course.ErrUserNotFound), errors.Is(err, course.ErrCourseNotFound):
			code = http.StatusBadRequest
			message = errors.Cause(err).Error()
		default:
			switch origErr := errors.Cause(err).(type) {
			case *echo.HTTPError:
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg), contextUser(ctx))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// practiceStatus maps gateway failures to HTTP.
// The provider's own error responses never get here: they are relayed as-is.
func practiceStatus(err *practice.Error) (int, string) {
	switch err.Kind {
	case practice.KindUnknownUser, practice.KindInvalidIdentifier:
		msg := err.Kind.String()
		if err.Err != nil {
			msg += ": " + err.Err.Error()
		}
		return http.StatusBadRequest, msg
	case practice.KindProviderAuthRejected:
		return http.StatusBadGateway, msgProviderRejected
	default:
		return http.StatusServiceUnavailable, msgIntegrationUnavailable
	}
}

func unwrapValidation(err error) error {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && vErr.Err != nil {
		return vErr.Err
	}
	return err
}
