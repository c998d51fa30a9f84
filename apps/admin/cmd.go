package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/classcodehub/codehub/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp    = errors.New("help provided")
	errNoSQLDB = errors.New("migrate needs the postgres database engine")
)

type commandLine struct {
	db         *sql.DB // nil unless the postgres engine is used
	studentSvc *student.Service
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a student's password")
	fmt.Fprintln(cli.out, "  importstudents -file FILE.xlsx -branch BRANCH -batch BATCH [-sheet SHEET] - add a batch roster")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The student's email. The password will be prompted next.")

	importCmd := flag.NewFlagSet("importstudents", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "An .xlsx file. The first column holds the student names; the first row is a header.")
	importBranch := importCmd.String("branch", "", "The branch name.")
	importBatch := importCmd.String("batch", "", "The batch name.")
	importSheet := importCmd.String("sheet", "", "The sheet to read. Defaults to the first one.")

	for _, fs := range []*flag.FlagSet{resetPasswordCmd, importCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))
	case "importstudents":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" || *importBranch == "" || *importBatch == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importFile, *importSheet, *importBranch, *importBatch)
	default:
		cli.printUsage()
		return errHelp
	}
}
