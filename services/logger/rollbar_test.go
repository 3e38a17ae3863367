package logsvc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

func TestRollbarLogger_Print(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{AppName: "lms-test", Env: "TEST", Debug: true}
	l := NewRollbarLogger(&buf, conf)
	l.Enable(false)

	usr := user.User{ID: 42, Name: "Jane", Surname: "Doe", Email: "jane@example.com"}
	l.Critical("siyavula integration unavailable", errors.New("boom"), usr, "op", "get-token")

	out := buf.String()
	assert.Contains(t, out, "siyavula integration unavailable")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "user_id=42")
	assert.Contains(t, out, "op=get-token")
	assert.Contains(t, out, "critical=true")
}

func TestRollbarLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(&buf, &core.Config{AppName: "lms-test"})
	l.Enable(false)

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestRollbarLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(&buf, &core.Config{AppName: "lms-test"}).Named("db")
	l.Enable(false)

	l.Info("migrated")
	assert.Contains(t, buf.String(), "component=db")
}

func TestRollbarLogger_Prepare(t *testing.T) {
	l := NewTestLogger()
	errBoom := errors.New("boom")
	usr := user.User{ID: 42, Name: "Jane", Surname: "Doe", Email: "jane@example.com"}

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{
			name: "message only",
			want: []interface{}{"circuit breaker opened"},
		},
		{
			name: "key/value pairs become extras",
			args: []interface{}{"breaker", "siyavula"},
			want: []interface{}{"circuit breaker opened", map[string]interface{}{"breaker": "siyavula"}},
		},
		{
			name: "mixed",
			args: []interface{}{errBoom, usr, "kept", "a", map[string]interface{}{"op": "get-token"}, 3, "orphan"},
			want: []interface{}{
				"circuit breaker opened",
				errBoom,
				map[string]interface{}{"kept": "a", "op": "get-token", "extra": []interface{}{3, "orphan"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.prepare("circuit breaker opened", tt.args)
			assert.Equal(t, tt.want, got)

			var msgs int
			for _, arg := range got {
				if _, ok := arg.(string); ok {
					msgs++
				}
			}
			assert.Equal(t, 1, msgs, "rollbar must see the message as the only string")
		})
	}
}
