package main

import (
	"context"
	"errors"

	"github.com/trezcool/masomo-lms/storage/database"
)

var (
	gooseRunFunc = database.Migrate // mockable

	errNoDatabase = errors.New("migrate requires the postgres database engine")
)

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return gooseRunFunc(ctx, cli.db, args[0], args[1:]...)
}
