package ghapp

import (
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Client authenticates requests as an installation of a GitHub App
type Client struct {
	appID     types.GitHubAppID
	installID types.GitHubAppInstallID
	pem       types.GitHubAppPrivateKey
	base      http.RoundTripper
}

type Option func(*Client)

// WithTransport sets the transport that signed requests go through
func WithTransport(tr http.RoundTripper) Option {
	return func(x *Client) {
		x.base = tr
	}
}

func New(appID types.GitHubAppID, installID types.GitHubAppInstallID, pem types.GitHubAppPrivateKey, options ...Option) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if installID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "installID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	client := &Client{
		appID:     appID,
		installID: installID,
		pem:       pem,
		base:      http.DefaultTransport,
	}
	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// HTTPClient returns a client that sends the installation token on every request, for both REST and GraphQL
func (x *Client) HTTPClient() (*http.Client, error) {
	itr, err := ghinstallation.New(x.base, int64(x.appID), int64(x.installID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "Failed to create github app transport",
			goerr.V("appID", x.appID),
			goerr.V("installID", x.installID),
		)
	}

	return &http.Client{Transport: itr}, nil
}

func (x *Client) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("appID", x.appID),
		slog.Any("installID", x.installID),
		slog.Int("privateKey.len", len(x.pem)),
	)
}
