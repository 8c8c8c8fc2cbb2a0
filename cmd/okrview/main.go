package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/okrview/internal/cli"
	"github.com/alexanderramin/okrview/internal/config"
	"github.com/alexanderramin/okrview/internal/db"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/repository"
	"github.com/alexanderramin/okrview/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var apiObserver okrapi.Observer = okrapi.NoopObserver{}
	var useCaseObservers []service.UseCaseObserver
	if cfg.LogCalls {
		apiObserver = okrapi.NewLogObserver(os.Stderr)
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(os.Stderr))
	}
	client := okrapi.NewClient(cfg.OKRAPI(), apiObserver)

	// The snapshot cache is optional; without it --cached and the cache
	// commands report ErrCacheDisabled.
	var (
		snapshots repository.SnapshotRepo
		uow       db.UnitOfWork
	)
	if !cfg.Cache.Disabled {
		var database *sql.DB
		database, err = db.OpenDB(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer database.Close()
		snapshots = repository.NewSQLiteSnapshotRepo(database)
		uow = db.NewSQLiteUnitOfWork(database)
	}

	app := &cli.App{
		OKR:    service.NewOKRService(client, snapshots, uow, useCaseObservers...),
		Config: cfg,
	}

	// Prompts and the full-screen browser only run on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
