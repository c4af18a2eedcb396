package config

import (
	"log/slog"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/coveralls"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

type Coveralls struct {
	baseURL   string
	token     types.CoverallsToken `masq:"secret"`
	rateLimit float64
}

func (x *Coveralls) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "coveralls-base-url",
			Usage:       "Coveralls repository root",
			Category:    "Coveralls",
			Destination: &x.baseURL,
			Value:       coveralls.DefaultBaseURL,
			Sources:     cli.EnvVars("CISTUDY_COVERALLS_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "coveralls-token",
			Usage:       "Coveralls API token (optional)",
			Category:    "Coveralls",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("CISTUDY_COVERALLS_TOKEN"),
		},
		&cli.FloatFlag{
			Name:        "coveralls-rate-limit",
			Usage:       "Max requests per second to Coveralls (0 means unlimited)",
			Category:    "Coveralls",
			Destination: &x.rateLimit,
			Value:       2,
			Sources:     cli.EnvVars("CISTUDY_COVERALLS_RATE_LIMIT"),
		},
	}
}

func (x *Coveralls) New() *coveralls.Client {
	var options []gateway.Option
	if x.rateLimit > 0 {
		options = append(options, gateway.WithRateLimit(rate.Limit(x.rateLimit), 1))
	}

	clientOptions := []coveralls.Option{coveralls.WithBaseURL(x.baseURL)}
	if x.token != "" {
		clientOptions = append(clientOptions, coveralls.WithToken(x.token))
	}

	return coveralls.New(gateway.New(options...), clientOptions...)
}

func (x *Coveralls) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("baseURL", x.baseURL),
		slog.Int("token.len", len(x.token)),
		slog.Float64("rateLimit", x.rateLimit),
	)
}
