package config

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/m-mizutani/cistudy/pkg/infra/ghapp"
	"github.com/m-mizutani/cistudy/pkg/infra/github"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// GitHub configures access to the GitHub REST and GraphQL APIs. Credentials are chosen in the order of
// GitHub App, basic auth and token; without any of them requests are sent anonymously.
type GitHub struct {
	token      types.GitHubToken `masq:"secret"`
	username   string
	password   types.GitHubToken `masq:"secret"`
	appID      types.GitHubAppID
	installID  types.GitHubAppInstallID
	privateKey types.GitHubAppPrivateKey `masq:"secret"`

	baseURL    string
	graphqlURL string

	rateLimit       float64
	retryLimit      int64
	retryDelay      time.Duration
	recordResponses bool
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("CISTUDY_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-username",
			Usage:       "GitHub username for basic auth",
			Category:    "GitHub",
			Destination: &x.username,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "github-password",
			Usage:       "GitHub password or token for basic auth",
			Category:    "GitHub",
			Destination: (*string)(&x.password),
			Sources:     cli.EnvVars("CISTUDY_GITHUB_PASSWORD"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.appID),
			Sources:     cli.EnvVars("CISTUDY_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-install-id",
			Usage:       "GitHub App installation ID",
			Category:    "GitHub",
			Destination: (*int64)(&x.installID),
			Sources:     cli.EnvVars("CISTUDY_GITHUB_APP_INSTALL_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Category:    "GitHub",
			Destination: (*string)(&x.privateKey),
			Sources:     cli.EnvVars("CISTUDY_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub REST API base URL",
			Category:    "GitHub",
			Destination: &x.baseURL,
			Value:       github.DefaultBaseURL,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "github-graphql-url",
			Usage:       "GitHub GraphQL endpoint",
			Category:    "GitHub",
			Destination: &x.graphqlURL,
			Value:       github.DefaultGraphQLURL,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_GRAPHQL_URL"),
		},
		&cli.FloatFlag{
			Name:        "github-rate-limit",
			Usage:       "Max requests per second to GitHub (0 means unlimited)",
			Category:    "GitHub",
			Destination: &x.rateLimit,
			Value:       1,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_RATE_LIMIT"),
		},
		&cli.Int64Flag{
			Name:        "github-retry-limit",
			Usage:       "Number of attempts of a batched query",
			Category:    "GitHub",
			Destination: &x.retryLimit,
			Value:       gateway.DefaultRetryLimit,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_RETRY_LIMIT"),
		},
		&cli.DurationFlag{
			Name:        "github-retry-delay",
			Usage:       "Delay between attempts of a batched query",
			Category:    "GitHub",
			Destination: &x.retryDelay,
			Value:       gateway.DefaultRetryDelay,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_RETRY_DELAY"),
		},
		&cli.BoolFlag{
			Name:        "github-record-responses",
			Usage:       "Save raw GraphQL responses under responses/ of the artifact store",
			Category:    "GitHub",
			Destination: &x.recordResponses,
			Sources:     cli.EnvVars("CISTUDY_GITHUB_RECORD_RESPONSES"),
		},
	}
}

func (x *GitHub) httpClient(ctx context.Context) (*http.Client, error) {
	switch {
	case x.appID != 0:
		app, err := ghapp.New(x.appID, x.installID, x.privateKey)
		if err != nil {
			return nil, err
		}
		return app.HTTPClient()

	case x.username != "":
		if x.password == "" {
			return nil, goerr.Wrap(types.ErrInvalidOption, "github-password is required with github-username")
		}
		return gateway.NewBasicAuthClient(x.username, x.password), nil

	case x.token != "":
		return gateway.NewTokenClient(ctx, x.token), nil
	}

	logging.From(ctx).Warn("GitHub credential is not configured, sending anonymous requests")
	return http.DefaultClient, nil
}

// New builds the GitHub client. Raw responses are saved into recorder when recording is enabled.
func (x *GitHub) New(ctx context.Context, recorder interfaces.ArtifactStore) (*github.Client, error) {
	if x.rateLimit < 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "github-rate-limit must not be negative", goerr.V("value", x.rateLimit))
	}

	client, err := x.httpClient(ctx)
	if err != nil {
		return nil, err
	}

	options := []gateway.Option{
		gateway.WithHTTPClient(client),
		gateway.WithRetry(int(x.retryLimit), x.retryDelay),
	}
	if x.rateLimit > 0 {
		options = append(options, gateway.WithRateLimit(rate.Limit(x.rateLimit), 1))
	}
	if x.recordResponses && recorder != nil {
		options = append(options, gateway.WithRecorder(recorder))
	}

	return github.New(gateway.New(options...),
		github.WithBaseURL(x.baseURL),
		github.WithGraphQLURL(x.graphqlURL),
	), nil
}

func (x *GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.String("username", x.username),
		slog.Int64("appID", int64(x.appID)),
		slog.Int64("installID", int64(x.installID)),
		slog.Int("privateKey.len", len(x.privateKey)),
		slog.String("baseURL", x.baseURL),
		slog.String("graphqlURL", x.graphqlURL),
		slog.Float64("rateLimit", x.rateLimit),
		slog.Int64("retryLimit", x.retryLimit),
		slog.Duration("retryDelay", x.retryDelay),
		slog.Bool("recordResponses", x.recordResponses),
	)
}
