package main

import (
	"errors"
	"io"

	ucli "github.com/urfave/cli/v2"

	"golftracker/internal/backend"
	"golftracker/internal/cli"
	"golftracker/internal/config"
	"golftracker/internal/core"
	applog "golftracker/internal/log"
	"golftracker/internal/services"
)

// application holds what a command needs once the store is open.
type application struct {
	logOut  io.Writer
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
	engine  *services.Engine
}

func newApp(out, logOut io.Writer) *ucli.App {
	a := &application{logOut: logOut}

	return &ucli.App{
		Name:                 "golftracker",
		Usage:                "record golf rounds and summarize scores and spending",
		Writer:               out,
		ErrWriter:            logOut,
		EnableBashCompletion: true,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "backend",
				Usage: "data backend: sqlite or memory (env DATA_BACKEND)",
			},
			&ucli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (env SQLITE_DB_PATH)",
			},
			&ucli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (env LOG_LEVEL)",
			},
		},
		Commands: []*ucli.Command{
			a.addCommand(),
			a.editCommand(),
			a.deleteCommand(),
			a.deleteAllCommand(),
			a.listCommand(),
			a.statsCommand(),
			a.chartCommand(),
			a.importCommand(),
			a.exportCommand(),
			a.coursesCommand(),
		},
		After: func(*ucli.Context) error {
			return a.close()
		},
	}
}

// open loads configuration and the store on first use. Help and
// completion never touch the database.
func (a *application) open(c *ucli.Context) error {
	if a.engine != nil {
		return nil
	}

	cfg, err := cli.LoadAndValidateConfig(func(cfg *config.Config) {
		if c.IsSet("backend") {
			cfg.DataBackend = c.String("backend")
		}
		if c.IsSet("db") {
			cfg.SQLiteDBPath = c.String("db")
		}
		if c.IsSet("log-level") {
			cfg.LogLevel = c.String("log-level")
		}
	})
	if err != nil {
		return err
	}

	logger := cli.SetupLogger(cfg, a.logOut).WithComponent(applog.ComponentCLI)
	res, err := cli.InitBackend(c.Context, logger, cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.backend = res
	a.engine = cli.NewEngine(cfg, res.Backend, logger)

	logger.DebugContext(c.Context, "Store opened",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, cfg.DataBackend,
		"cache_size", cfg.QueryCacheSize)
	return nil
}

func (a *application) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	a.engine = nil
	return err
}

// action opens the store before running fn.
func (a *application) action(fn func(c *ucli.Context) error) ucli.ActionFunc {
	return func(c *ucli.Context) error {
		if err := a.open(c); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			a.logger.DebugContext(c.Context, "Command failed",
				"command", c.Command.Name,
				applog.FieldError, err,
				applog.FieldErrorType, errorType(err))
			return err
		}
		return nil
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return applog.ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return applog.ErrorTypeNotFound
	case errors.Is(err, core.ErrStorage):
		return applog.ErrorTypeDatabase
	default:
		return applog.ErrorTypeInternal
	}
}
