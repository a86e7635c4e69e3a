package config

import (
	"github.com/lambda-feedback/msgbody/body"
	"github.com/lambda-feedback/msgbody/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Body configures how message bodies are read and decoded
	Body body.Config `conf:"body"`
}

// DefaultConfig holds the defaults for Config, keyed by config path.
var DefaultConfig = conf.MergeDefaults("body", conf.DefaultConfig{
	"max_bytes": body.DefaultMaxBytes,
	"strict":    false,
})
