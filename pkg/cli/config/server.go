package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr       string
	TrustProxy bool
}

// Flags returns CLI flags for Server configuration. defaultAddr differs per command.
func (s *Server) Flags(defaultAddr string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       defaultAddr,
			Sources:     cli.EnvVars("PARAZIT_ADDR"),
			Destination: &s.Addr,
		},
		&cli.BoolFlag{
			Name:        "trust-proxy",
			Usage:       "Take client addresses from X-Forwarded-For / X-Real-IP (only behind a trusted reverse proxy)",
			Sources:     cli.EnvVars("PARAZIT_TRUST_PROXY"),
			Destination: &s.TrustProxy,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Bool("trust_proxy", s.TrustProxy),
	)
}
