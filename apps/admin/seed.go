package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/masomo-lms/core/user"
)

func (cli *commandLine) seed(ctx context.Context) error {
	demo, created, err := cli.usrSvc.EnsureUser(ctx, user.DemoUser(cli.conf.Demo.Email, cli.conf.Demo.Password))
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(cli.out, "demo user %s created\n", demo.Email)
	}

	names, err := cli.crsSvc.SeedStandardCourses(ctx)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		fmt.Fprintf(cli.out, "courses created: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func (cli *commandLine) checkSiyavula(ctx context.Context) error {
	if _, err := cli.provider.ObtainClientToken(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "siyavula: client token obtained")
	return nil
}
