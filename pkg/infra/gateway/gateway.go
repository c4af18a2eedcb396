package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/cistudy/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultRetryLimit = 10
	DefaultRetryDelay = 3 * time.Second

	maxErrorBodySize = 512
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Gateway issues GET and POST requests against JSON APIs. Requests are sequential and blocking.
type Gateway struct {
	httpClient HTTPClient
	retryLimit int
	retryDelay time.Duration
	limiter    *rate.Limiter
	recorder   interfaces.ArtifactStore
}

type Option func(*Gateway)

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Gateway) {
		x.httpClient = client
	}
}

// WithRetry sets the number of attempts of PostQuery and the fixed delay between them
func WithRetry(limit int, delay time.Duration) Option {
	return func(x *Gateway) {
		x.retryLimit = limit
		x.retryDelay = delay
	}
}

// WithRateLimit paces every request through a token bucket
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(x *Gateway) {
		x.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithRecorder enables persisting raw responses of requests issued with SaveAs
func WithRecorder(store interfaces.ArtifactStore) Option {
	return func(x *Gateway) {
		x.recorder = store
	}
}

func New(options ...Option) *Gateway {
	gw := &Gateway{
		httpClient: http.DefaultClient,
		retryLimit: DefaultRetryLimit,
		retryDelay: DefaultRetryDelay,
	}

	for _, opt := range options {
		opt(gw)
	}

	if gw.retryLimit < 1 {
		gw.retryLimit = 1
	}

	return gw
}

type requestConfig struct {
	tolerant bool
	saveAs   string
	header   http.Header
}

type RequestOption func(*requestConfig)

// Tolerant makes a body that is not valid JSON (e.g. an HTML error page) an empty result instead of an error
func Tolerant() RequestOption {
	return func(cfg *requestConfig) {
		cfg.tolerant = true
	}
}

// SaveAs persists the raw JSON response as the named artifact
func SaveAs(name string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.saveAs = name
	}
}

func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.header == nil {
			cfg.header = make(http.Header)
		}
		cfg.header.Set(key, value)
	}
}

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (x *Gateway) do(ctx context.Context, method, rawURL string, body []byte, cfg *requestConfig) ([]byte, error) {
	if x.limiter != nil {
		if err := x.limiter.Wait(ctx); err != nil {
			return nil, goerr.Wrap(err, "rate limiter wait failed", goerr.V("url", rawURL))
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("url", rawURL))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range cfg.header {
		req.Header[k] = v
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.V("method", method), goerr.V("url", rawURL))
	}
	defer safe.Close(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body", goerr.V("url", rawURL))
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, goerr.Wrap(types.ErrNotFound, "resource not found", goerr.V("url", rawURL))
	}
	if resp.StatusCode >= 400 {
		excerpt := respBody
		if len(excerpt) > maxErrorBodySize {
			excerpt = excerpt[:maxErrorBodySize]
		}
		return nil, goerr.New("unexpected status code",
			goerr.V("method", method),
			goerr.V("url", rawURL),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(excerpt)),
		)
	}

	return respBody, nil
}

func (x *Gateway) record(ctx context.Context, name string, raw []byte) error {
	if name == "" || x.recorder == nil {
		return nil
	}
	if err := x.recorder.Save(ctx, name, raw); err != nil {
		return goerr.Wrap(err, "failed to save response", goerr.V("artifact", name))
	}
	return nil
}

func buildURL(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid URL", goerr.V("url", rawURL))
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// FetchJSON issues a GET request and returns the JSON body. With Tolerant, a non-JSON body yields nil without error.
func (x *Gateway) FetchJSON(ctx context.Context, rawURL string, params url.Values, opts ...RequestOption) (json.RawMessage, error) {
	cfg := newRequestConfig(opts)
	return x.fetchJSON(ctx, rawURL, params, cfg)
}

func (x *Gateway) fetchJSON(ctx context.Context, rawURL string, params url.Values, cfg *requestConfig) (json.RawMessage, error) {
	reqURL, err := buildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	raw, err := x.do(ctx, http.MethodGet, reqURL, nil, cfg)
	if err != nil {
		return nil, err
	}

	if !json.Valid(raw) {
		if cfg.tolerant {
			logging.From(ctx).Debug("ignored non-JSON response", slog.String("url", reqURL))
			return nil, nil
		}
		return nil, goerr.Wrap(types.ErrInvalidResponse, "response is not JSON", goerr.V("url", reqURL))
	}

	if err := x.record(ctx, cfg.saveAs, raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// PageOptions controls FetchPaged
type PageOptions struct {
	PerPage  int
	MaxPages int
	// ResultKey is the top-level field holding the items. If empty, the response itself is the list.
	ResultKey string
}

// FetchPaged issues the same GET request with page=1,2,... and aggregates the items. It stops at the first
// page shorter than PerPage or after MaxPages. Nothing is returned until every page has been fetched.
func (x *Gateway) FetchPaged(ctx context.Context, rawURL string, params url.Values, pageOpt PageOptions, opts ...RequestOption) ([]json.RawMessage, error) {
	if pageOpt.PerPage < 1 || pageOpt.MaxPages < 1 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "per page and max pages must be positive",
			goerr.V("per_page", pageOpt.PerPage),
			goerr.V("max_pages", pageOpt.MaxPages),
		)
	}

	cfg := newRequestConfig(opts)
	saveAs := cfg.saveAs
	cfg.saveAs = ""

	var items []json.RawMessage
	for page := 1; page <= pageOpt.MaxPages; page++ {
		pageParams := url.Values{}
		for k, vs := range params {
			pageParams[k] = vs
		}
		pageParams.Set("per_page", strconv.Itoa(pageOpt.PerPage))
		pageParams.Set("page", strconv.Itoa(page))

		raw, err := x.fetchJSON(ctx, rawURL, pageParams, cfg)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch page", goerr.V("page", page))
		}

		pageItems, err := extractItems(raw, pageOpt.ResultKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode page", goerr.V("url", rawURL), goerr.V("page", page))
		}
		items = append(items, pageItems...)

		if len(pageItems) < pageOpt.PerPage {
			break
		}
	}

	if saveAs != "" {
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal aggregated pages")
		}
		if err := x.record(ctx, saveAs, raw); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func extractItems(raw json.RawMessage, resultKey string) ([]json.RawMessage, error) {
	if raw == nil {
		return nil, nil
	}

	if resultKey == "" {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidResponse, "response is not a list")
		}
		return items, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidResponse, "response is not an object")
	}
	field, ok := obj[resultKey]
	if !ok {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidResponse, "result field is not a list", goerr.V("key", resultKey))
	}
	return items, nil
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

// PostQuery sends body as JSON and returns the "data" field of the response. Any failure, including a
// missing or null "data", is retried with a fixed delay. After the last attempt it returns
// types.ErrRetryExhausted, and the caller must treat the batch as not completed.
func (x *Gateway) PostQuery(ctx context.Context, rawURL string, body any, opts ...RequestOption) (json.RawMessage, error) {
	cfg := newRequestConfig(opts)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal request body")
	}

	logger := logging.From(ctx)
	var (
		attempt int
		data    json.RawMessage
	)

	op := func() error {
		attempt++
		raw, err := x.do(ctx, http.MethodPost, rawURL, payload, cfg)
		if err != nil {
			return err
		}

		var resp graphQLResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return goerr.Wrap(types.ErrInvalidResponse, "response is not JSON")
		}
		if len(resp.Data) == 0 || string(resp.Data) == "null" {
			return goerr.Wrap(types.ErrInvalidResponse, "response has no data", goerr.V("errors", len(resp.Errors)))
		}
		if len(resp.Errors) > 0 {
			logger.Debug("query returned partial errors",
				slog.Int("errors", len(resp.Errors)),
				slog.String("first", resp.Errors[0].Message),
			)
		}

		if err := x.record(ctx, cfg.saveAs, raw); err != nil {
			return backoff.Permanent(err)
		}

		data = resp.Data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(x.retryDelay), uint64(x.retryLimit-1)),
		ctx,
	)
	notify := func(err error, _ time.Duration) {
		logger.Warn("request failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("limit", x.retryLimit),
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if ctx.Err() != nil {
			return nil, goerr.Wrap(ctx.Err(), "query canceled", goerr.V("url", rawURL))
		}
		if attempt < x.retryLimit {
			return nil, err
		}

		logger.Error("exhausted all retries",
			slog.Int("limit", x.retryLimit),
			slog.String("url", rawURL),
		)
		return nil, goerr.Wrap(types.ErrRetryExhausted, "query did not complete",
			goerr.V("url", rawURL),
			goerr.V("attempts", attempt),
			goerr.V("last_error", err.Error()),
		)
	}

	return data, nil
}
