package logging

import "go.uber.org/zap"

const (
	FormatProduction  = "production"
	FormatDevelopment = "development"
)

// New builds the root logger. The production format logs json, the
// development format logs to the console. Unknown levels fall back to info.
func New(app, level, format string) (*zap.Logger, error) {
	var config zap.Config
	if format == "" || format == FormatProduction {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": app,
	}

	config.Level = parseLevel(level)

	return config.Build()
}

func parseLevel(level string) zap.AtomicLevel {
	if atom, err := zap.ParseAtomicLevel(level); err == nil && level != "" {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
