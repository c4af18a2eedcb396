package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/m-mizutani/cistudy/pkg/repository/memory"
	"github.com/m-mizutani/gt"
	"golang.org/x/time/rate"
)

func pagedServer(t *testing.T, sizes []int, resultKey string) (*httptest.Server, *int32) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		page := gt.R1(strconv.Atoi(r.URL.Query().Get("page"))).NoError(t)
		gt.V(t, r.URL.Query().Get("per_page")).Equal("100")
		gt.V(t, r.URL.Query().Get("branch")).Equal("main")

		n := 0
		if page <= len(sizes) {
			n = sizes[page-1]
		}
		items := make([]map[string]int, n)
		for i := range items {
			items[i] = map[string]int{"page": page, "i": i}
		}

		var body any = items
		if resultKey != "" {
			body = map[string]any{"total_count": 999, resultKey: items}
		}
		gt.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestFetchPaged(t *testing.T) {
	ctx := context.Background()
	params := url.Values{"branch": {"main"}}

	t.Run("stops at short page", func(t *testing.T) {
		srv, requests := pagedServer(t, []int{100, 100, 37}, "")
		gw := gateway.New()

		items, err := gw.FetchPaged(ctx, srv.URL, params, gateway.PageOptions{PerPage: 100, MaxPages: 10})
		gt.NoError(t, err)
		gt.A(t, items).Length(237)
		gt.V(t, atomic.LoadInt32(requests)).Equal(int32(3))
	})

	t.Run("stops at max pages", func(t *testing.T) {
		srv, requests := pagedServer(t, []int{100, 100, 100, 100}, "workflow_runs")
		gw := gateway.New()

		items, err := gw.FetchPaged(ctx, srv.URL, params, gateway.PageOptions{PerPage: 100, MaxPages: 2, ResultKey: "workflow_runs"})
		gt.NoError(t, err)
		gt.A(t, items).Length(200)
		gt.V(t, atomic.LoadInt32(requests)).Equal(int32(2))
	})

	t.Run("missing result key is an empty page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":"nothing"}`))
		}))
		defer srv.Close()

		items, err := gateway.New().FetchPaged(ctx, srv.URL, nil, gateway.PageOptions{PerPage: 100, MaxPages: 5, ResultKey: "workflow_runs"})
		gt.NoError(t, err)
		gt.A(t, items).Length(0)
	})

	t.Run("aggregate is saved once", func(t *testing.T) {
		srv, _ := pagedServer(t, []int{100, 5}, "")
		store := memory.New()
		gw := gateway.New(gateway.WithRecorder(store))

		_, err := gw.FetchPaged(ctx, srv.URL, params, gateway.PageOptions{PerPage: 100, MaxPages: 5}, gateway.SaveAs("runs/x.json"))
		gt.NoError(t, err)

		raw := gt.R1(store.Load(ctx, "runs/x.json")).NoError(t)
		var saved []json.RawMessage
		gt.NoError(t, json.Unmarshal(raw, &saved))
		gt.A(t, saved).Length(105)
	})

	t.Run("invalid page options", func(t *testing.T) {
		_, err := gateway.New().FetchPaged(ctx, "http://localhost", nil, gateway.PageOptions{PerPage: 0, MaxPages: 1})
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}

func TestFetchJSON(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/html":
			_, _ = w.Write([]byte(`<html><body>oops</body></html>`))
		case "/error":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	t.Run("valid JSON", func(t *testing.T) {
		raw := gt.R1(gateway.New().FetchJSON(ctx, srv.URL+"/json", nil)).NoError(t)
		gt.V(t, string(raw)).Equal(`{"ok":true}`)
	})

	t.Run("non-JSON is fatal by default", func(t *testing.T) {
		_, err := gateway.New().FetchJSON(ctx, srv.URL+"/html", nil)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidResponse))
	})

	t.Run("non-JSON is empty when tolerant", func(t *testing.T) {
		raw, err := gateway.New().FetchJSON(ctx, srv.URL+"/html", nil, gateway.Tolerant())
		gt.NoError(t, err)
		gt.V(t, len(raw)).Equal(0)
	})

	t.Run("404 is ErrNotFound", func(t *testing.T) {
		_, err := gateway.New().FetchJSON(ctx, srv.URL+"/missing", nil, gateway.Tolerant())
		gt.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("server error", func(t *testing.T) {
		_, err := gateway.New().FetchJSON(ctx, srv.URL+"/error", nil)
		gt.Error(t, err)
		gt.False(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("rate limited requests still succeed", func(t *testing.T) {
		gw := gateway.New(gateway.WithRateLimit(rate.Inf, 1))
		for i := 0; i < 3; i++ {
			gt.R1(gw.FetchJSON(ctx, srv.URL+"/json", nil)).NoError(t)
		}
	})

	t.Run("header is sent", func(t *testing.T) {
		hsrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.V(t, r.Header.Get("Authorization")).Equal("token abc")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer hsrv.Close()
		gt.R1(gateway.New().FetchJSON(ctx, hsrv.URL, nil, gateway.WithHeader("Authorization", "token abc"))).NoError(t)
	})
}

func TestPostQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("retries until data is present", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&calls, 1)
			switch n {
			case 1:
				w.WriteHeader(http.StatusBadGateway)
			case 2:
				_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"timeout"}]}`))
			default:
				_, _ = w.Write([]byte(`{"data":{"repo1":{"defaultBranchRef":{"name":"main"}}}}`))
			}
		}))
		defer srv.Close()

		store := memory.New()
		gw := gateway.New(gateway.WithRetry(10, 0), gateway.WithRecorder(store))
		data, err := gw.PostQuery(ctx, srv.URL, map[string]string{"query": "{}"}, gateway.SaveAs("raw.json"))
		gt.NoError(t, err)
		gt.S(t, string(data)).Contains("defaultBranchRef")
		gt.V(t, atomic.LoadInt32(&calls)).Equal(int32(3))
		gt.True(t, gt.R1(store.Exists(ctx, "raw.json")).NoError(t))
	})

	t.Run("exhausts retry budget", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = w.Write([]byte(`{"message":"rate limited"}`))
		}))
		defer srv.Close()

		gw := gateway.New(gateway.WithRetry(4, time.Millisecond))
		data, err := gw.PostQuery(ctx, srv.URL, map[string]string{"query": "{}"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrRetryExhausted))
		gt.V(t, len(data)).Equal(0)
		gt.V(t, atomic.LoadInt32(&calls)).Equal(int32(4))
	})

	t.Run("request body is JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gt.V(t, body["query"]).Equal("query { viewer { login } }")
			gt.V(t, r.Header.Get("Content-Type")).Equal("application/json")
			fmt.Fprint(w, `{"data":{"viewer":{"login":"octocat"}}}`)
		}))
		defer srv.Close()

		gt.R1(gateway.New().PostQuery(ctx, srv.URL, map[string]string{"query": "query { viewer { login } }"})).NoError(t)
	})
}

func TestBasicAuthTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		gt.True(t, ok)
		gt.V(t, user).Equal("octocat")
		gt.V(t, pass).Equal("secret")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := gateway.New(gateway.WithHTTPClient(gateway.NewBasicAuthClient("octocat", "secret")))
	gt.R1(gw.FetchJSON(context.Background(), srv.URL, nil)).NoError(t)
}

func TestTokenClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.V(t, r.Header.Get("Authorization")).Equal("Bearer ghp_token")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	gw := gateway.New(gateway.WithHTTPClient(gateway.NewTokenClient(ctx, "ghp_token")))
	gt.R1(gw.FetchJSON(ctx, srv.URL, nil)).NoError(t)
}
