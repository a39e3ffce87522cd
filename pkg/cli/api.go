package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/parazit/pkg/cli/config"
	controller "github.com/secmon-lab/parazit/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

func cmdAPI() *cli.Command {
	var (
		serverCfg  config.Server
		storageCfg config.Storage
	)

	flags := joinFlags(
		serverCfg.Flags("localhost:8000"),
		storageCfg.Flags(),
	)

	return &cli.Command{
		Name:  "api",
		Usage: "Start the case API serving case and person records",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting parazit case API",
				slog.Any("server", serverCfg),
				slog.Any("storage", storageCfg),
			)

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("Failed to close repository", slog.Any("error", err))
				}
			}()

			server, err := controller.NewAPIServer(ctx, serverCfg.Addr, repo)
			if err != nil {
				return goerr.Wrap(err, "failed to create API server")
			}

			return runServer(ctx, server.Server)
		},
	}
}
