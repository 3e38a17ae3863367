package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/masomo-lms/apps/api/echo"
	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/practice"
	"github.com/trezcool/masomo-lms/core/user"
	emailsvc "github.com/trezcool/masomo-lms/services/email"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/services/siyavula"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
)

const (
	demoEmail    = "demo@test.co"
	demoPassword = "Demo-Pass-123"

	activityUUID = "0b6e6b5e-8d4f-4e8b-9a52-3f1f9c1d2a01"
	responseUUID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

var ctx = context.Background()

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	auth     bool
	wantCode int
	wantData []byte
}

// fakeSiyavula records the calls made to it and answers like the provider would.
type fakeSiyavula struct {
	mu             sync.Mutex
	calls          []string
	answers        url.Values
	tokenStatus    int // 0: 200
	activityStatus int // 0: 200
}

func (f *fakeSiyavula) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeSiyavula) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSiyavula) fail(tokenStatus, activityStatus int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus = tokenStatus
	f.activityStatus = activityStatus
}

func (f *fakeSiyavula) statuses() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenStatus, f.activityStatus
}

func (f *fakeSiyavula) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/siyavula/v1/get-token", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if status, _ := f.statuses(); status != 0 {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "client-token"})
	})
	mux.HandleFunc("POST /api/siyavula/v1/user", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"uuid": "remote-" + r.Header.Get("JWT")})
	})
	mux.HandleFunc("GET /api/siyavula/v1/user/{id}/token", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"token": "user-token-" + r.PathValue("id")})
	})
	mux.HandleFunc("GET /api/siyavula/v1/activity/create/practice/{section}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if _, status := f.statuses(); status != 0 {
			writeJSON(w, status, map[string]string{"detail": "section not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"activity": r.PathValue("section"), "auth": r.Header.Get("Authorization")})
	})
	mux.HandleFunc("POST /api/siyavula/v1/activity/{act}/response/{resp}/submit-answer", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		_ = r.ParseForm()
		f.mu.Lock()
		f.answers = r.PostForm
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"correct": "true"})
	})
	mux.HandleFunc("GET /api/siyavula/v1/activity/{act}/response/{resp}/next", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>next question</p>"))
	})
	mux.HandleFunc("GET /api/siyavula/v1/activity/{act}/response/{resp}/retry", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"retry": r.PathValue("act")})
	})
	return mux
}

type testApp struct {
	server   *echoapi.Server
	siyavula *fakeSiyavula
	userSvc  *user.Service
	mailSvc  *emailsvc.ConsoleService
	demo     user.User
}

func setup(t *testing.T) *testApp {
	t.Helper()

	fake := new(fakeSiyavula)
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	conf := &core.Config{
		AppName:          "Masomo LMS",
		TestMode:         true,
		DefaultFromEmail: "noreply@test.co",
		Siyavula: core.SiyavulaConfig{
			BaseURL:    srv.URL,
			Name:       "org",
			Password:   "secret",
			Region:     "ZA",
			Curriculum: "CAPS",
			Timeout:    time.Second,
		},
	}
	logger := logsvc.NewTestLogger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc)
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db), usrSvc, logger)
	gw := practice.NewGateway(siyavula.NewClient(conf, logger), usrSvc, practice.NewLocalLocker(), logger)

	demo, _, err := usrSvc.EnsureUser(ctx, user.NewUser{
		Email:      demoEmail,
		Name:       "Demo",
		Surname:    "Teacher",
		Password:   demoPassword,
		Grade:      10,
		Country:    "ZA",
		Curriculum: user.CurriculumCAPS,
		Role:       user.RoleTeacher,
	})
	require.NoError(t, err)
	_, err = crsSvc.SeedStandardCourses(ctx)
	require.NoError(t, err)

	server := echoapi.NewServer("", echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		UserSvc:    usrSvc,
		CourseSvc:  crsSvc,
		Gateway:    gw,
		Validate:   validate,
		Translator: translator,
	})
	return &testApp{server: server, siyavula: fake, userSvc: usrSvc, mailSvc: mailSvc, demo: demo}
}

func (app *testApp) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(tt.method, tt.path, bytes.NewReader(tt.body))
	req.Header.Set("Content-Type", "application/json")
	if tt.auth {
		req.SetBasicAuth(demoEmail, demoPassword)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
