package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/parazit/pkg/domain/interfaces"
	"github.com/urfave/cli/v3"
)

// Storage selects the case API data source: Firestore when a project is set, seed files otherwise
type Storage struct {
	Seed      Seed
	Firestore Firestore
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return append(s.Seed.Flags(), s.Firestore.Flags()...)
}

// Configure creates the repository
func (s *Storage) Configure(ctx context.Context) (interfaces.Repository, error) {
	if s.Firestore.IsConfigured() {
		if s.Seed.Dir != "" {
			ctxlog.From(ctx).Warn("Both Firestore and seed directory are configured, seed directory is ignored",
				"seed_dir", s.Seed.Dir)
		}
		repo, err := s.Firestore.Configure(ctx)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	repo, err := s.Seed.Configure(ctx)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("seed", s.Seed),
		slog.Any("firestore", s.Firestore),
	)
}
