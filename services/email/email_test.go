package emailsvc

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
)

var testConf = &core.Config{AppName: "LMS", DefaultFromEmail: "noreply@lms.test", SendgridApiKey: "sg-key"}

func TestConsoleServiceMock(t *testing.T) {
	svc := NewConsoleServiceMock(testConf, logsvc.NewTestLogger())
	svc.SendMessages(
		&core.EmailMessage{To: []mail.Address{{Address: "a@example.com"}}, Subject: "Hi", BodyStr: "hello"},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "b@example.com"}}, Subject: "empty"},
	)

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello", sent[0].TextContent)

	out := svc.format(sent[0])
	assert.Contains(t, out, "Subject: [LMS] Hi")
	assert.Contains(t, out, `From: "LMS" <noreply@lms.test>`)
}

func TestSendgridService(t *testing.T) {
	type sgBody struct {
		From             struct{ Email string } `json:"from"`
		Personalizations []struct {
			Subject string `json:"subject"`
			To      []struct{ Email string }
		} `json:"personalizations"`
		Content []struct{ Type, Value string } `json:"content"`
	}

	got := make(chan sgBody, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		var body sgBody
		assert.NoError(t, json.Unmarshal(raw, &body))
		got <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewSendgridService(testConf, logsvc.NewTestLogger())
	svc.host = srv.URL
	svc.done = make(chan struct{}, 1)

	svc.SendMessages(&core.EmailMessage{To: []mail.Address{{Name: "A", Address: "a@example.com"}}, Subject: "Welcome", BodyStr: "hi"})

	select {
	case body := <-got:
		assert.Equal(t, "noreply@lms.test", body.From.Email)
		require.Len(t, body.Personalizations, 1)
		assert.Equal(t, "[LMS] Welcome", body.Personalizations[0].Subject)
		assert.Equal(t, "a@example.com", body.Personalizations[0].To[0].Email)
		assert.Equal(t, "hi", body.Content[0].Value)
	case <-time.After(2 * time.Second):
		t.Fatal("email was not sent")
	}
	<-svc.done
}
