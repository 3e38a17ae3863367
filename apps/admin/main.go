package main

import (
	"database/sql"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
	emailsvc "github.com/trezcool/masomo-lms/services/email"
	logsvc "github.com/trezcool/masomo-lms/services/logger"
	"github.com/trezcool/masomo-lms/services/siyavula"
	"github.com/trezcool/masomo-lms/storage/database"
	inmemdb "github.com/trezcool/masomo-lms/storage/database/inmem"
	sqlxrepos "github.com/trezcool/masomo-lms/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewStdoutLogger(conf).Named("admin")
	logger.Enable(false)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up storage
	var (
		db       *sql.DB
		usrRepo  user.Repository
		crsRepo  course.Repository
		mailSvc  = emailsvc.NewConsoleService(conf, logger)
		provider = siyavula.NewClient(conf, logger)
	)
	if conf.Database.Engine == core.DBEngineMemory {
		memDB := inmemdb.NewDB()
		usrRepo = inmemdb.NewUserRepository(memDB)
		crsRepo = inmemdb.NewCourseRepository(memDB)
	} else {
		sqlxDB, err := database.Open(conf)
		if err != nil {
			logger.Fatal("opening database", errors.Wrap(err, "opening database"))
		}
		defer func() { _ = sqlxDB.Close() }()
		db = sqlxDB.DB
		usrRepo = sqlxrepos.NewUserRepository(sqlxDB)
		crsRepo = sqlxrepos.NewCourseRepository(sqlxDB)
	}
	usrSvc := user.NewService(usrRepo, mailSvc)

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       db,
		validate: validate,
		usrSvc:   usrSvc,
		crsSvc:   course.NewService(crsRepo, usrSvc, logger),
		provider: provider,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
