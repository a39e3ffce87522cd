package config

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/parazit/pkg/service/caseapi"
	"github.com/urfave/cli/v3"
)

// CaseAPI holds configuration of the case listing backend
type CaseAPI struct {
	URL     string
	Timeout time.Duration
}

// Flags returns CLI flags for CaseAPI configuration
func (c *CaseAPI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Base URL of the case API",
			Category:    "Case API",
			Value:       "http://api:8000",
			Sources:     cli.EnvVars("PARAZIT_API_URL"),
			Destination: &c.URL,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of one case list request",
			Category:    "Case API",
			Value:       caseapi.DefaultTimeout,
			Sources:     cli.EnvVars("PARAZIT_API_TIMEOUT"),
			Destination: &c.Timeout,
		},
	}
}

// Validate validates the case API configuration
func (c *CaseAPI) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return goerr.Wrap(err, "invalid case API URL", goerr.V("url", c.URL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return goerr.New("case API URL must be http or https", goerr.V("url", c.URL))
	}
	if u.Host == "" {
		return goerr.New("case API URL has no host", goerr.V("url", c.URL))
	}
	if c.Timeout <= 0 {
		return goerr.New("case API timeout must be positive", goerr.V("timeout", c.Timeout))
	}
	return nil
}

// Configure creates the case fetcher. Fetch metrics are registered with reg when it is not nil.
func (c *CaseAPI) Configure(reg prometheus.Registerer) (*caseapi.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return caseapi.New(c.URL,
		caseapi.WithTimeout(c.Timeout),
		caseapi.WithMetrics(caseapi.NewMetrics(reg)),
	), nil
}

// LogValue returns structured log value
func (c CaseAPI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Duration("timeout", c.Timeout),
	)
}
