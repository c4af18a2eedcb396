package coveralls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultBaseURL already includes the service segment of repository paths
const DefaultBaseURL = "https://coveralls.io/github"

type Client struct {
	gw      *gateway.Gateway
	baseURL string
	token   types.CoverallsToken
}

var _ interfaces.Coveralls = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(x *Client) {
		x.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithToken sends the repository token. Public repositories need none.
func WithToken(token types.CoverallsToken) Option {
	return func(x *Client) {
		x.token = token
	}
}

func New(gw *gateway.Gateway, options ...Option) *Client {
	client := &Client{
		gw:      gw,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

// ListBuilds fetches one page of the build list. Coveralls answers unknown repositories with an HTML
// page or 404, both of which yield an empty page.
func (x *Client) ListBuilds(ctx context.Context, owner, repo string, page int) (*model.CoverallsPage, error) {
	if page < 1 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "page starts from 1", goerr.V("page", page))
	}

	endpoint := fmt.Sprintf("%s/%s/%s.json", x.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	params := url.Values{"page": {strconv.Itoa(page)}}

	opts := []gateway.RequestOption{gateway.Tolerant()}
	if x.token != "" {
		opts = append(opts, gateway.WithHeader("Authorization", "token "+string(x.token)))
	}

	empty := &model.CoverallsPage{Page: page}

	raw, err := x.gw.FetchJSON(ctx, endpoint, params, opts...)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return empty, nil
		}
		return nil, goerr.Wrap(err, "failed to list coveralls builds", goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("page", page))
	}
	if raw == nil {
		return empty, nil
	}

	var resp model.CoverallsPage
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidResponse, "invalid coveralls build page",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("page", page),
			goerr.V("error", err.Error()),
		)
	}

	return &resp, nil
}
