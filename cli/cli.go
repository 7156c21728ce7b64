package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "exmatrix"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Build, run and collect events for an example across the device/compiler/optimization matrix",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"C"},
					Usage:   "Path to the TOML config file (default: ./exmatrix.toml if present)",
					EnvVars: []string{"EXMATRIX_CONFIG"},
				},
				&cli.StringFlag{
					Name:  "workdir",
					Usage: "Directory the example is built and run in",
					Value: ".",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}

	usages := map[string]string{
		action.Clean:   "Remove build output for each configuration",
		action.Build:   "Build each configuration and archive the output",
		action.Extract: "Restore the newest archive of each configuration",
		action.Run:     "Run each configuration's image on its simulator model",
		action.Events:  "Print the recorded events with eventlist",
	}
	for _, name := range action.Names() {
		app.cli.Commands = append(app.cli.Commands, &cli.Command{
			Name:  name,
			Usage: usages[name],
			Flags: actionFlags(),
			Action: func(ctx *cli.Context) error {
				return app.runActions(ctx, []string{name})
			},
		})
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "actions",
		Usage:     "Run several actions in order for each configuration",
		ArgsUsage: "ACTION [ACTION...]",
		Flags:     actionFlags(),
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return fmt.Errorf("no actions given: choose from %v", action.Names())
			}
			return app.runActions(ctx, ctx.Args().Slice())
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "matrix",
		Usage:  "Print the configurations selected by the filters",
		Flags:  filterFlags(),
		Action: app.printMatrix,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous matrix runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "action",
				Aliases: []string{"a"},
				Usage:   "Only show runs that included this action",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "View a matrix run from history",
		ArgsUsage:       "[ID|INDEX]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `View a matrix run from history.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  -2          View 3rd last run
  <hex-id>    View run matching the hex ID prefix

Examples:
  exmatrix view           # View last run
  exmatrix view -1        # View 2nd last run
  exmatrix view abc123    # View run with ID starting with abc123`,
	})
	return app
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "Device to include (CM3, CM55, SSE300); repeatable, default all",
		},
		&cli.StringSliceFlag{
			Name:    "compiler",
			Aliases: []string{"c"},
			Usage:   "Compiler to include (AC6, GCC, IAR, CLANG); repeatable, default all",
		},
		&cli.StringSliceFlag{
			Name:    "optimize",
			Aliases: []string{"o"},
			Usage:   "Optimization to include (Debug, Release); repeatable, default all",
		},
	}
}

func actionFlags() []cli.Flag {
	return append(filterFlags(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the commands instead of executing them",
		},
		&cli.StringFlag{
			Name:  "junit",
			Usage: "Write a JUnit XML report to this file",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record this run in the history directory",
		},
	)
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
