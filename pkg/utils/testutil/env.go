package testutil

import (
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/cistudy/pkg/domain/types"
)

// GetEnvOrSkip returns the value of the environment variable. If not set, skip the test.
func GetEnvOrSkip(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("Environment variable %s is not set, skipping test", key)
	}
	return value
}

// BigQueryTarget returns the project and dataset of TEST_BIGQUERY_PROJECT_ID and TEST_BIGQUERY_DATASET_ID
func BigQueryTarget(t *testing.T) (types.GoogleProjectID, types.BQDatasetID) {
	t.Helper()
	projectID := GetEnvOrSkip(t, "TEST_BIGQUERY_PROJECT_ID")
	datasetID := GetEnvOrSkip(t, "TEST_BIGQUERY_DATASET_ID")
	return types.GoogleProjectID(projectID), types.BQDatasetID(datasetID)
}

// GCSTarget returns the bucket of TEST_GCS_BUCKET and an object prefix that is unique to the test and
// the time it started, so that artifacts of earlier runs are never seen.
func GCSTarget(t *testing.T) (bucket, prefix string) {
	t.Helper()
	bucket = GetEnvOrSkip(t, "TEST_GCS_BUCKET")
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return bucket, path.Join("cistudy-test", name, time.Now().UTC().Format("20060102_150405.000"))
}
