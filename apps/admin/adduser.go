package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-lms/core/user"
)

// addUser validates and creates a user.User, like the API does.
func (cli *commandLine) addUser(ctx context.Context, nu user.NewUser) error {
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %d (%s) created\n", usr.ID, usr.Email)
	return nil
}
