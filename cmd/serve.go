package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/msgbody/app"
	"github.com/lambda-feedback/msgbody/app/standalone"
	"github.com/lambda-feedback/msgbody/util/conf"
	"github.com/lambda-feedback/msgbody/util/logging"
)

var (
	serveCmdDescription = `The serve command starts a http server exposing the message
body endpoints, so that the service can be run on arbitrary
platforms.

The command will launch the http server and blocks indefin-
itely, processing incoming http requests.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Start a http server and listen for requests.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Aliases:  []string{"H"},
				Usage:    "The host to listen on.",
				Value:    "localhost",
				Category: "http",
				EnvVars:  []string{"HTTP_HOST"},
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "The port to listen on.",
				Value:    8080,
				Category: "http",
				EnvVars:  []string{"HTTP_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "Enable HTTP/2 cleartext upgrade.",
				Value:    false,
				Category: "http",
				EnvVars:  []string{"HTTP_H2C"},
			},
			&cli.Float64Flag{
				Name:     "rate-limit",
				Usage:    "Requests per second allowed per client. 0 disables rate limiting.",
				Category: "http",
				EnvVars:  []string{"HTTP_RATE_LIMIT"},
			},
			&cli.IntFlag{
				Name:     "rate-burst",
				Usage:    "Maximum burst of requests per client.",
				Category: "http",
				EnvVars:  []string{"HTTP_RATE_BURST"},
			},
		},
	}

	httpFlags = map[string]string{
		"host":       "http.host",
		"port":       "http.port",
		"h2c":        "http.h2c",
		"rate-limit": "http.rate_limit",
		"rate-burst": "http.rate_burst",
	}
)

func serveAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[standalone.Config](conf.ParseOptions{
		Cli:      ctx,
		CliMap:   httpFlags,
		Defaults: standalone.DefaultConfig,
		FileName: ctx.Path("config"),
		Log:      log,
	})
	if err != nil {
		return err
	}

	log.Info("starting http server")

	return app.Run(ctx.Context, standalone.Module(cfg))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
