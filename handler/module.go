package handler

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/msgbody/binding"
)

func Module() fx.Option {
	return fx.Module("handler",
		// provide binder
		fx.Provide(binding.New),
		// provide record schema
		fx.Provide(NewHelloDataSchema),
		// provide endpoint handlers
		fx.Provide(NewStringHandler),
		fx.Provide(NewJSONHandler),
		// provide routes
		fx.Provide(NewStringRoutes),
		fx.Provide(NewJSONRoutes),
		fx.Provide(NewHealthRoute),
	)
}
