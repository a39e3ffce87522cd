package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/secmon-lab/parazit/pkg/cli/config"
	controller "github.com/secmon-lab/parazit/pkg/controller/http"
	"github.com/secmon-lab/parazit/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		caseAPICfg   config.CaseAPI
		rateLimitCfg config.RateLimit
	)

	flags := joinFlags(
		serverCfg.Flags("localhost:8080"),
		caseAPICfg.Flags(),
		rateLimitCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the public case overview page",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting parazit page server",
				slog.Any("server", serverCfg),
				slog.Any("case_api", caseAPICfg),
				slog.Any("rate_limit", rateLimitCfg),
			)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			fetcher, err := caseAPICfg.Configure(reg)
			if err != nil {
				return goerr.Wrap(err, "failed to configure case API client")
			}

			opts := []controller.ServerOption{
				controller.WithMetrics(reg),
				controller.WithTrustProxy(serverCfg.TrustProxy),
			}
			if rateLimitCfg.IsEnabled() {
				opts = append(opts, controller.WithRateLimiter(rateLimitCfg.Configure()))
			}

			server, err := controller.NewServer(ctx, serverCfg.Addr, usecase.NewCaseList(fetcher), opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			return runServer(ctx, server.Server)
		},
	}
}
