package body

import "go.uber.org/fx"

// Module provides the body reader and writer.
func Module(config Config) fx.Option {
	return fx.Module(
		"body",
		// provide body config
		fx.Supply(config),
		// provide reader
		fx.Provide(NewReader),
		// provide writer
		fx.Provide(NewWriter),
	)
}
