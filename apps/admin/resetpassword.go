package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if err := cli.studentSvc.ResetPassword(context.Background(), email, pwd); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Password updated.")
	return nil
}
