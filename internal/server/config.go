package server

type HttpConfig struct {
	Host string `conf:"host"`
	Port int    `conf:"port"`
	H2c  bool   `conf:"h2c"`

	// RateLimit is the number of requests per second allowed per client.
	// Zero disables rate limiting.
	RateLimit float64 `conf:"rate_limit"`

	// RateBurst is the maximum burst size per client.
	RateBurst int `conf:"rate_burst"`
}
