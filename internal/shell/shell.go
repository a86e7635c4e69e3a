package shell

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Shell runs an fx application until it is signalled to stop or the
// parent context is done.
type Shell struct {
	log     *zap.Logger
	options []fx.Option
}

func New(log *zap.Logger, options ...fx.Option) *Shell {
	return &Shell{
		log:     log,
		options: options,
	}
}

// Run starts the application built from the shell options and options,
// blocks until shutdown and always returns an *ExitError carrying the
// process exit code.
func (s *Shell) Run(ctx context.Context, options ...fx.Option) error {
	// flush the logger once the app has stopped
	defer s.log.Sync() //nolint:errcheck

	appCtx, cancelApp := context.WithCancel(ctx)
	defer cancelApp()

	fxApp := fx.New(s.appOptions(appCtx, options...)...)

	// cancelling ctx stops the app once started, it never aborts the start
	startCtx, cancelStart := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancelStart()

	if err := fxApp.Start(startCtx); err != nil {
		s.log.Error("failed to start", zap.Error(err))
		return NewExitError(1)
	}

	var exitCode int
	select {
	case sig := <-fxApp.Wait():
		exitCode = sig.ExitCode
	case <-ctx.Done():
		s.log.Info("context done, shutting down")
	}

	// stop with a fresh context, the parent may already be done
	stopCtx, cancelStop := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer cancelStop()

	if err := fxApp.Stop(stopCtx); err != nil {
		s.log.Error("failed to stop", zap.Error(err))
		return NewExitError(1)
	}

	return NewExitError(exitCode)
}

// Validate checks that the dependency graph of the application is complete
// without running any constructors.
func (s *Shell) Validate(options ...fx.Option) error {
	return fx.ValidateApp(s.appOptions(context.Background(), options...)...)
}

func (s *Shell) appOptions(ctx context.Context, options ...fx.Option) []fx.Option {
	return []fx.Option{
		// inject the app context
		fx.Supply(fx.Annotate(ctx, fx.As(new(context.Context)))),

		// inject the logger
		fx.Supply(s.log),

		// use the logger also for fx' logs
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: s.log.Named("fx")}
		}),

		// shell options
		fx.Options(s.options...),

		// run options
		fx.Options(options...),
	}
}
