package dig_container

import (
	"context"
	"fmt"
	"log"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo-lms/apps/api/echo"
	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/practice"
	"github.com/trezcool/masomo-lms/core/user"
	emailsvc "github.com/trezcool/masomo-lms/services/email"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/services/siyavula"
	"github.com/trezcool/masomo-lms/storage/cache/redislock"
	"github.com/trezcool/masomo-lms/storage/database"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
	sqlxrepos "github.com/trezcool/masomo-lms/storage/database/sqlx"
)

const setupTimeout = 30 * time.Second

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Storage is the set of repositories backing the services.
	// DB is nil with the memory engine.
	Storage struct {
		dig.Out
		DB      *sqlx.DB
		Users   user.Repository
		Courses course.Repository
	}

	serverParams struct {
		dig.In
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		CourseSvc  *course.Service
		Gateway    *practice.Gateway
		Validate   *validator.Validate
		Translator ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewStdoutLogger(conf).Named("api")
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewStdoutLogger(conf).Named("db")
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.Engine == core.DBEngineMemory {
		db := inmemdb.NewDB()
		return Storage{
			Users:   inmemdb.NewUserRepository(db),
			Courses: inmemdb.NewCourseRepository(db),
		}
	}

	setUp := func() (*sqlx.DB, error) {
		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()

		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.MigrateUp(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Storage{
		DB:      db,
		Users:   sqlxrepos.NewUserRepository(db),
		Courses: sqlxrepos.NewCourseRepository(db),
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newCourseService(repo course.Repository, users *user.Service, logger core.Logger) *course.Service {
	return course.NewService(repo, users, logger)
}

// newLocker returns the provisioning lock selected by `siyavula.provisionLock`; nil for "none".
func newLocker(conf *core.Config, logger core.Logger) practice.Locker {
	switch conf.Siyavula.ProvisionLock {
	case core.ProvisionLockNone:
		logger.Warn("provisioning lock disabled: concurrent first requests may create duplicate siyavula accounts")
		return nil
	case core.ProvisionLockRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		locker := redislock.New(client, conf.Siyavula.LockTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := locker.Ping(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		return locker
	default:
		return practice.NewLocalLocker()
	}
}

func newGateway(client *siyavula.Client, users *user.Service, locker practice.Locker, logger core.Logger) *practice.Gateway {
	return practice.NewGateway(client, users, locker, logger)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf.Server.Addr, echoapi.ServerDeps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		UserSvc:    p.UserSvc,
		CourseSvc:  p.CourseSvc,
		Gateway:    p.Gateway,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(newCourseService))
	must(c.Provide(siyavula.NewClient))
	must(c.Provide(newLocker))
	must(c.Provide(newGateway))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
