package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(ctx, email, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password of %s updated\n", usr.Email)
	return nil
}
