package gateway

import (
	"context"
	"net/http"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"golang.org/x/oauth2"
)

// BasicAuthTransport sets HTTP basic credentials on every request
type BasicAuthTransport struct {
	Username string
	Password types.GitHubToken
	Base     http.RoundTripper
}

func (x *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := x.Base
	if base == nil {
		base = http.DefaultTransport
	}

	r := req.Clone(req.Context())
	r.SetBasicAuth(x.Username, string(x.Password))
	return base.RoundTrip(r)
}

func NewBasicAuthClient(username string, password types.GitHubToken) *http.Client {
	return &http.Client{
		Transport: &BasicAuthTransport{
			Username: username,
			Password: password,
		},
	}
}

// NewTokenClient returns a client sending "Authorization: Bearer <token>"
func NewTokenClient(ctx context.Context, token types.GitHubToken) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(token)})
	return oauth2.NewClient(ctx, src)
}
