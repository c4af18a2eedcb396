package coveralls_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/coveralls"
	"github.com/m-mizutani/cistudy/pkg/infra/gateway"
	"github.com/m-mizutani/gt"
)

func newClient(srv *httptest.Server, opts ...coveralls.Option) *coveralls.Client {
	opts = append([]coveralls.Option{coveralls.WithBaseURL(srv.URL + "/github")}, opts...)
	return coveralls.New(gateway.New(), opts...)
}

func TestListBuilds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/github/octo/hello.json":
			gt.V(t, r.URL.Query().Get("page")).Equal("2")
			_, _ = w.Write([]byte(`{
				"page": 2, "pages": 3, "total": 25,
				"builds": [
					{"created_at": "2023-04-10T12:00:00Z", "url": null, "commit_sha": "abc", "branch": "main", "covered_percent": 87.5, "coverage_change": 0.1},
					{"created_at": "2023-04-09T12:00:00Z", "commit_sha": "def", "branch": "dev", "covered_percent": null}
				]
			}`))
		case "/github/octo/html.json":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>Not here</body></html>`))
		case "/github/octo/auth.json":
			gt.V(t, r.Header.Get("Authorization")).Equal("token secret")
			_, _ = w.Write([]byte(`{"page": 1, "pages": 1, "total": 0, "builds": []}`))
		case "/github/octo/broken.json":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("decodes builds", func(t *testing.T) {
		page := gt.R1(newClient(srv).ListBuilds(ctx, "octo", "hello", 2)).NoError(t)
		gt.V(t, page.Pages).Equal(3)
		gt.A(t, page.Builds).Length(2)
		gt.V(t, page.Builds[0].Branch).Equal("main")
		gt.V(t, *page.Builds[0].CoveredPercent).Equal(87.5)
		gt.V(t, page.Builds[0].CommitSHA).Equal(types.CommitSHA("abc"))
		gt.True(t, page.Builds[0].CreatedAt.Equal(time.Date(2023, 4, 10, 12, 0, 0, 0, time.UTC)))
		gt.V(t, page.Builds[1].CoveredPercent).Equal(nil)
	})

	t.Run("html is an empty page", func(t *testing.T) {
		page := gt.R1(newClient(srv).ListBuilds(ctx, "octo", "html", 1)).NoError(t)
		gt.A(t, page.Builds).Length(0)
	})

	t.Run("not found is an empty page", func(t *testing.T) {
		page := gt.R1(newClient(srv).ListBuilds(ctx, "octo", "missing", 1)).NoError(t)
		gt.A(t, page.Builds).Length(0)
		gt.V(t, page.Page).Equal(1)
	})

	t.Run("token is sent", func(t *testing.T) {
		page := gt.R1(newClient(srv, coveralls.WithToken("secret")).ListBuilds(ctx, "octo", "auth", 1)).NoError(t)
		gt.V(t, page.Total).Equal(0)
	})

	t.Run("server error fails", func(t *testing.T) {
		_, err := newClient(srv).ListBuilds(ctx, "octo", "broken", 1)
		gt.Error(t, err)
	})

	t.Run("page must be positive", func(t *testing.T) {
		_, err := newClient(srv).ListBuilds(ctx, "octo", "hello", 0)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}
