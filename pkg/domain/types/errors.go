package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidOption is returned when a configuration value is not acceptable
	ErrInvalidOption = goerr.New("invalid option")

	// ErrNotFound means the remote resource does not exist (HTTP 404)
	ErrNotFound = goerr.New("not found")

	// ErrRetryExhausted means every attempt of a retried request failed. The batch must be re-run.
	ErrRetryExhausted = goerr.New("retry exhausted")

	// ErrMissingArtifact means an upstream stage output required by a stage does not exist
	ErrMissingArtifact = goerr.New("missing artifact")

	// ErrIncompleteBatch means at least one partition of a stage did not complete
	ErrIncompleteBatch = goerr.New("incomplete batch")

	ErrInvalidResponse = goerr.New("invalid response")
	ErrInvalidRecord   = goerr.New("invalid record")
)
