package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/pressly/goose"

	"github.com/akshaywebstep/synco-sub001/core"
)

var (
	gooseRunFunc = goose.Run    // mockable
	seedRunFunc  = seedDemoData // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db   *sql.DB
	conf *core.Config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run a DB migration command: up, down, status, ...")
	fmt.Println("  seed                   - load demo booking data for local development")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return seedRunFunc(cli.db)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, cli.conf.Database.MigrationsDir, arguments...)
}
