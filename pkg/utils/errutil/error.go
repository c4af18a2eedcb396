package errutil

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/cistudy/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// StepKey is the goerr value key naming the pipeline step that failed. It is reported as a Sentry tag.
const StepKey = "step"

// HandleError logs err and reports it to Sentry. The hub bound to ctx is used if present. The run ID
// and the failed step are set as tags, and the other goerr values become extras.
func HandleError(ctx context.Context, msg string, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub = hub.Clone()

	runID, _ := logging.CtxRunID(ctx)
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", runID.String())
		for k, v := range goerr.Values(err) {
			if step, ok := v.(string); ok && k == StepKey {
				scope.SetTag(StepKey, step)
				continue
			}
			scope.SetExtra(k, v)
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error(msg,
		"error", err,
		"sentry.EventID", evID,
	)
}
