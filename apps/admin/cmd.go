package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// tokenObtainer is the part of the Siyavula client checked by `siyavula-check`.
type tokenObtainer interface {
	ObtainClientToken(ctx context.Context) (string, error)
}

type commandLine struct {
	conf     *core.Config
	db       *sql.DB // nil with the memory engine
	validate *validator.Validate
	usrSvc   *user.Service
	crsSvc   *course.Service
	provider tokenObtainer
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -surname SURNAME -role Learner|Teacher [-grade N -country CC -curriculum C] - create a user")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, version, redo, reset, up-to V, down-to V)")
	fmt.Fprintln(cli.out, "  seed - create the demo user and the standard courses")
	fmt.Fprintln(cli.out, "  siyavula-check - obtain a Siyavula client token with the configured credentials")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's name.")
	addUserSurname := addUserCmd.String("surname", "", "The user's surname.")
	addUserRole := addUserCmd.String("role", user.RoleLearner, "Learner or Teacher.")
	addUserGrade := addUserCmd.Int("grade", 10, "The user's grade (1-12).")
	addUserCountry := addUserCmd.String("country", "ZA", "The user's country code.")
	addUserCurriculum := addUserCmd.String("curriculum", user.CurriculumCAPS, "The user's curriculum.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" || *addUserSurname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, user.NewUser{
			Email:      *addUserEmail,
			Name:       *addUserName,
			Surname:    *addUserSurname,
			Password:   pwd,
			Grade:      *addUserGrade,
			Country:    *addUserCountry,
			Curriculum: *addUserCurriculum,
			Role:       *addUserRole,
		})
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "seed":
		return cli.seed(ctx)
	case "siyavula-check":
		return cli.checkSiyavula(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
