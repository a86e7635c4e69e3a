package app

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/config"
	"github.com/lambda-feedback/msgbody/internal/shell"
	"github.com/lambda-feedback/msgbody/util/conf"
	"github.com/lambda-feedback/msgbody/util/logging"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	return shell.New(log, SharedModule(config)), nil
}

// SharedModule provides the values shared by every run mode.
func SharedModule(config config.Config) fx.Option {
	return fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide body reader and writer
		body.Module(config.Body),
	)
}
