package echoapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

func TestServer_Home(t *testing.T) {
	app := setup(t)
	rec := app.do(t, httpTest{method: http.MethodGet, path: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Masomo LMS!", rec.Body.String())
}

func TestServer_UnknownRoute(t *testing.T) {
	app := setup(t)
	for _, path := range []string{"/nope", "/courses/1/students"} {
		t.Run(path, func(t *testing.T) {
			rec := app.do(t, httpTest{method: http.MethodGet, path: path})
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestServer_BasicAuth(t *testing.T) {
	app := setup(t)

	for _, path := range []string{"/auth/users", "/courses", "/assignments?user_id=1"} {
		t.Run("anonymous "+path, func(t *testing.T) {
			rec := app.do(t, httpTest{method: http.MethodGet, path: path})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "basic")
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/courses", nil)
		req.SetBasicAuth(demoEmail, "not-the-password")
		rec := httptest.NewRecorder()
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserApi(t *testing.T) {
	app := setup(t)

	newUser := func(email, pwd string) []byte {
		return marshalObj(t, map[string]interface{}{
			"email":      email,
			"name":       "Ada",
			"surname":    "Lovelace",
			"password":   pwd,
			"grade":      11,
			"country":    "ZA",
			"curriculum": user.CurriculumCAPS,
			"role":       user.RoleLearner,
		})
	}

	t.Run("create", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodPost, path: "/auth/users", body: newUser(" Ada@Test.co ", "Str0ng!Passw"), auth: true})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotZero(t, got.ID)
		assert.Equal(t, "ada@test.co", got.Email)
		assert.Empty(t, got.RemoteAccountID)
		assert.NotContains(t, rec.Body.String(), "password")

		// welcome email
		sent := app.mailSvc.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "ada@test.co", sent[0].To[0].Address)
	})

	tests := []httpTest{
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			path:     "/auth/users",
			body:     newUser("ada@test.co", "Str0ng!Passw"),
			auth:     true,
			wantCode: http.StatusConflict,
			wantData: marshalObj(t, httpErr{Error: user.ErrEmailExists.Error()}),
		},
		{
			name:     "weak password",
			method:   http.MethodPost,
			path:     "/auth/users",
			body:     newUser("bob@test.co", "12345678"),
			auth:     true,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/auth/users",
			body:     []byte(`{"email": "bob@test.co"}`),
			auth:     true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/auth/users",
			body:     []byte(`{"email": `),
			auth:     true,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(t, tt))
		})
	}

	t.Run("query", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: "/auth/users", auth: true})
		require.Equal(t, http.StatusOK, rec.Code)

		var got []user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		emails := make([]string, 0, len(got))
		for _, usr := range got {
			emails = append(emails, usr.Email)
		}
		assert.ElementsMatch(t, []string{demoEmail, "ada@test.co"}, emails)
	})
}

func TestCourseApi(t *testing.T) {
	app := setup(t)

	rec := app.do(t, httpTest{method: http.MethodGet, path: "/courses", auth: true})
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []course.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, len(course.StandardCourses))
	crsID := courses[0].ID

	assign := func(userID, courseID int) []byte {
		return marshalObj(t, course.NewAssignment{UserID: userID, CourseID: courseID})
	}

	t.Run("assign", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodPost, path: "/assignments", body: assign(app.demo.ID, crsID), auth: true})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got course.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, app.demo.ID, got.UserID)
		assert.Equal(t, crsID, got.CourseID)
	})

	tests := []httpTest{
		{
			name:     "already assigned",
			method:   http.MethodPost,
			path:     "/assignments",
			body:     assign(app.demo.ID, crsID),
			auth:     true,
			wantCode: http.StatusConflict,
			wantData: marshalObj(t, httpErr{Error: course.ErrAssignmentExists.Error()}),
		},
		{
			name:     "unknown user",
			method:   http.MethodPost,
			path:     "/assignments",
			body:     assign(9999, crsID),
			auth:     true,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: course.ErrUserNotFound.Error()}),
		},
		{
			name:     "unknown course",
			method:   http.MethodPost,
			path:     "/assignments",
			body:     assign(app.demo.ID, 9999),
			auth:     true,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: course.ErrCourseNotFound.Error()}),
		},
		{
			name:     "missing user_id",
			method:   http.MethodPost,
			path:     "/assignments",
			body:     []byte(`{"course_id": 1}`),
			auth:     true,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"user_id": "this field is required"}),
		},
		{
			name:     "query without user_id",
			method:   http.MethodGet,
			path:     "/assignments",
			auth:     true,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"user_id": "this field is required"}),
		},
		{
			name:     "query by user",
			method:   http.MethodGet,
			path:     fmt.Sprintf("/assignments?user_id=%d", app.demo.ID),
			auth:     true,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(t, tt))
		})
	}

	t.Run("assignments of user", func(t *testing.T) {
		rec := app.do(t, httpTest{method: http.MethodGet, path: fmt.Sprintf("/assignments?user_id=%d", app.demo.ID), auth: true})
		require.Equal(t, http.StatusOK, rec.Code)
		var got []course.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, crsID, got[0].CourseID)
	})
}
