package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-lms/core"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
)

func TestAppHTTPErrorHandler_Shutdown(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantShutdown bool
	}{
		{name: "shutdown error", err: errors.Wrap(core.NewShutdownError("selecting user: sql: database is closed"), "getting user"), wantShutdown: true},
		{name: "other server error", err: errors.New("boom"), wantShutdown: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var signaled bool
			e := echo.New()
			e.HTTPErrorHandler = newAppHTTPErrorHandler(logsvc.NewTestLogger(), core.NewTranslator(), func() { signaled = true })
			e.GET("/", func(echo.Context) error { return tt.err })

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())
			assert.Equal(t, tt.wantShutdown, signaled)
		})
	}
}
