package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/masomo-lms/apps/api/di/dig"
	echoapi "github.com/trezcool/masomo-lms/apps/api/echo"
	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/practice"
	"github.com/trezcool/masomo-lms/core/user"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		usrSvc *user.Service,
		crsSvc *course.Service,
		gw *practice.Gateway,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		if db != nil {
			dbLogger := dbLoggerParam.Logger
			defer func() {
				if err := db.Close(); err != nil {
					dbLogger.Fatal("Failed to close", err)
				}
			}()
		}
		defer apiLogger.Info("Application stopped")

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout+conf.Siyavula.Timeout)
		seed(ctx, conf, apiLogger, usrSvc, crsSvc)

		// the API keeps serving CRUD routes when the integration is down
		if err := gw.Warm(ctx); err != nil {
			apiLogger.Critical("siyavula integration unavailable at startup", err)
		}
		cancel()

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		server.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

// seed creates the demo account and the standard courses if missing.
func seed(ctx context.Context, conf *core.Config, logger core.Logger, usrSvc *user.Service, crsSvc *course.Service) {
	demo, created, err := usrSvc.EnsureUser(ctx, user.DemoUser(conf.Demo.Email, conf.Demo.Password))
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding demo user: %v", err), err)
	}
	if created {
		logger.Info("demo user created", demo)
	}

	names, err := crsSvc.SeedStandardCourses(ctx)
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding courses: %v", err), err)
	}
	if len(names) > 0 {
		logger.Info("standard courses created", "courses", fmt.Sprint(names))
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
