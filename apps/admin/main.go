package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/classcodehub/codehub/core"
	"github.com/classcodehub/codehub/core/student"
	"github.com/classcodehub/codehub/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	errAndDie(conf.Validate())

	// set up DB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := database.OpenRepositories(ctx, conf, false /* migrate */)
	cancel()
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:         repos.SQL,
		studentSvc: student.NewService(repos.Students),
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	_ = repos.Close(context.Background())
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
