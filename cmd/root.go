package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/msgbody/config"
	"github.com/lambda-feedback/msgbody/internal/shell"
	"github.com/lambda-feedback/msgbody/util/conf"
	"github.com/lambda-feedback/msgbody/util/logging"
)

var (
	appName  = "msgbody"
	appUsage = `A http service that reads, decodes and writes message bodies
in a number of equivalent handler styles.`
	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a .json, .yaml, .yml or .env file.",
				Aliases: []string{"C"},
				EnvVars: []string{"CONFIG_FILE"},
			},
			// body flags
			&cli.Int64Flag{
				Name:     "max-bytes",
				Usage:    "the maximum size of a request body in bytes.",
				Value:    1 << 20,
				Category: "body",
				EnvVars:  []string{"BODY_MAX_BYTES"},
			},
			&cli.BoolFlag{
				Name:     "strict",
				Usage:    "reject structured bodies with unknown fields.",
				Category: "body",
				EnvVars:  []string{"BODY_STRICT"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := logging.New(appName, ctx.String("log-level"), ctx.String("log-format"))
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, config file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:      ctx,
				CliMap:   bodyFlags,
				Defaults: config.DefaultConfig,
				FileName: ctx.Path("config"),
				Log:      log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			_ = log.Sync()

			return nil
		},
	}

	bodyFlags = map[string]string{
		"max-bytes": "body.max_bytes",
		"strict":    "body.strict",
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli and returns the process exit code.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) int {
	err := rootApp.RunContext(ctx, args)

	code := shell.ExitCode(err)
	if code != 0 && !isExitError(err) {
		fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())
	}

	return code
}

func isExitError(err error) bool {
	var exitErr *shell.ExitError
	return errors.As(err, &exitErr)
}
