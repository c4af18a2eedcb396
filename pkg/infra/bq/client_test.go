package bq_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/cistudy/pkg/domain/types"
	"github.com/m-mizutani/cistudy/pkg/infra/bq"
	"github.com/m-mizutani/cistudy/pkg/utils/safe"
	"github.com/m-mizutani/cistudy/pkg/utils/testutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/googleapi"
)

func TestClient(t *testing.T) {
	projectID, datasetID := testutil.BigQueryTarget(t)

	ctx := context.Background()

	tblName := types.BQTableID(time.Now().Format("insert_test_20060102_150405"))
	client := gt.R1(bq.New(ctx, projectID, datasetID, tblName)).NoError(t)
	defer safe.Close(client)

	t.Run("table does not exist yet", func(t *testing.T) {
		md := gt.R1(client.GetMetadata(ctx)).NoError(t)
		gt.V(t, md).Equal(nil)
	})

	schema := gt.R1(bqs.Infer(model.ProjectStats{})).NoError(t)

	t.Run("create table", func(t *testing.T) {
		gt.NoError(t, client.CreateTable(ctx, &bigquery.TableMetadata{
			Name:   tblName.String(),
			Schema: schema,
		}))
	})

	t.Run("insert rows", func(t *testing.T) {
		rows := []*model.ProjectStats{
			{
				RunID:         types.NewRunID(),
				Timestamp:     time.Now(),
				RepoID:        1,
				Owner:         "octo",
				Name:          "hello",
				Language:      "Go",
				LanguageGroup: "Other",
				SizeCategory:  "Small",
				MemberCount:   6,
				Workflows:     2,
			},
		}
		gt.NoError(t, client.Insert(ctx, rows))
	})
}

func TestIsNotFound(t *testing.T) {
	t.Run("detects 404 response", func(t *testing.T) {
		err := &googleapi.Error{Code: http.StatusNotFound}
		gt.True(t, bq.IsNotFound(err))
	})

	t.Run("detects wrapped 404 response", func(t *testing.T) {
		err := goerr.Wrap(&googleapi.Error{Code: http.StatusNotFound}, "level 1")
		gt.True(t, bq.IsNotFound(goerr.Wrap(err, "level 2")))
	})

	t.Run("other status", func(t *testing.T) {
		gt.False(t, bq.IsNotFound(&googleapi.Error{Code: http.StatusForbidden}))
	})

	t.Run("non API error", func(t *testing.T) {
		gt.False(t, bq.IsNotFound(errors.New("some other error")))
	})
}
