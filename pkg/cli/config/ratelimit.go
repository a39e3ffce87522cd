package config

import (
	"log/slog"

	"github.com/secmon-lab/parazit/pkg/utils/ratelimit"
	"github.com/urfave/cli/v3"
)

// RateLimit holds per-client rate limit configuration of the page server
type RateLimit struct {
	RPS   float64
	Burst int
}

// Flags returns CLI flags for RateLimit configuration
func (r *RateLimit) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "rate-limit",
			Usage:       "Page requests per second allowed per client (0 disables)",
			Category:    "Rate limit",
			Value:       5,
			Sources:     cli.EnvVars("PARAZIT_RATE_LIMIT"),
			Destination: &r.RPS,
		},
		&cli.IntFlag{
			Name:        "rate-burst",
			Usage:       "Burst size of the per-client rate limit",
			Category:    "Rate limit",
			Value:       10,
			Sources:     cli.EnvVars("PARAZIT_RATE_BURST"),
			Destination: &r.Burst,
		},
	}
}

// Configure creates the limiter. It returns nil when rate limiting is disabled.
func (r *RateLimit) Configure() *ratelimit.Limiter {
	return ratelimit.New(r.RPS, r.Burst, 0)
}

// IsEnabled reports whether requests are limited
func (r *RateLimit) IsEnabled() bool {
	return r.RPS > 0 && r.Burst > 0
}

// LogValue returns structured log value
func (r RateLimit) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("rps", r.RPS),
		slog.Int("burst", r.Burst),
	)
}
