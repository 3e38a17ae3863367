package logsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

// RollbarLogger reports to Rollbar and prints to a zerolog console logger.
type RollbarLogger struct {
	zl *zerolog.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(out io.Writer, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stdout, TimeFormat: "2006-01-02 15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Str("app", conf.AppName).
		Logger()
	return &RollbarLogger{zl: &zl}
}

// NewTestLogger returns a logger that reports nowhere.
func NewTestLogger() *RollbarLogger {
	rollbar.SetEnabled(false)
	zl := zerolog.Nop()
	return &RollbarLogger{zl: &zl}
}

// NewStdoutLogger is NewRollbarLogger writing to stdout.
func NewStdoutLogger(conf *core.Config) *RollbarLogger {
	return NewRollbarLogger(os.Stdout, conf)
}

// Named returns a copy of the logger tagging its console lines with `component`.
func (l RollbarLogger) Named(component string) *RollbarLogger {
	zl := l.zl.With().Str("component", component).Logger()
	return &RollbarLogger{zl: &zl}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected fmt: msg | error, map[string]interface{}, user.User, key/value pairs.
// rollbar takes any string as the message, so key/value pairs and other values go into the extras map.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, msg)
	extras := make(map[string]interface{})
	var extra []interface{}
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case user.User: // set logged in User
			if !usrSet { // only set one User
				rollbar.SetPerson(fmt.Sprint(arg.ID), arg.Name+" "+arg.Surname, arg.Email)
				usrSet = true
			}
		case error, context.Context, *http.Request:
			newArgs = append(newArgs, arg)
		case map[string]interface{}:
			for k, v := range arg {
				extras[k] = v
			}
		case string:
			if i+1 < len(args) { // key/value pair
				extras[arg] = args[i+1]
				i++
			} else {
				extra = append(extra, arg)
			}
		default:
			extra = append(extra, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	if len(extra) > 0 {
		extras["extra"] = extra
	}
	if len(extras) > 0 {
		newArgs = append(newArgs, extras)
	}
	return newArgs
}

func (l RollbarLogger) print(evt *zerolog.Event, msg string, args []interface{}) {
	var extra []interface{}
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case error:
			evt = evt.Err(arg)
		case user.User:
			evt = evt.Int("user_id", arg.ID)
		case map[string]interface{}:
			evt = evt.Fields(arg)
		case string:
			if i+1 < len(args) { // key/value pair
				evt = evt.Interface(arg, args[i+1])
				i++
			} else {
				extra = append(extra, arg)
			}
		default:
			extra = append(extra, arg)
		}
	}
	if len(extra) > 0 {
		evt = evt.Interface("extra", extra)
	}
	evt.Msg(msg)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(l.zl.Debug(), msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(l.zl.Info(), msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(l.zl.Warn(), msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(l.zl.Error(), msg, args)
}

// Critical reports that a whole subsystem is down, without stopping the process.
func (l RollbarLogger) Critical(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(l.zl.WithLevel(zerolog.ErrorLevel).Bool("critical", true), msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	rollbar.Wait()
	l.print(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
	os.Exit(1)
}
