package standalone

import (
	"github.com/lambda-feedback/msgbody/internal/server"
	"github.com/lambda-feedback/msgbody/util/conf"
)

type Config struct {
	// Http represents the configuration for the HTTP server.
	Http server.HttpConfig `conf:"http"`
}

// DefaultConfig holds the defaults for Config, keyed by config path.
var DefaultConfig = conf.MergeDefaults("http", conf.DefaultConfig{
	"host":       "localhost",
	"port":       8080,
	"h2c":        false,
	"rate_limit": 0,
	"rate_burst": 0,
})
