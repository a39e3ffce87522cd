package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/parazit/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Seed holds the location of YAML seed records
type Seed struct {
	Dir string
}

// Flags returns CLI flags for Seed configuration
func (s *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-dir",
			Usage:       "Directory of YAML case and person records",
			Category:    "Storage",
			Sources:     cli.EnvVars("PARAZIT_SEED_DIR"),
			Destination: &s.Dir,
		},
	}
}

// Configure loads the seed directory into a memory repository.
// Without a directory the repository starts empty.
func (s *Seed) Configure(ctx context.Context) (*repository.Memory, error) {
	if s.Dir == "" {
		ctxlog.From(ctx).Warn("No seed directory configured, serving an empty data set")
		return repository.NewMemory(), nil
	}

	return repository.LoadSeed(ctx, s.Dir)
}

// LogValue returns structured log value
func (s Seed) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", s.Dir),
	)
}
