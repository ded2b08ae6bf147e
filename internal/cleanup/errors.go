package cleanup

import (
	"context"
	"errors"

	"github.com/ameistad/pagesprune/internal/logging"
	"github.com/ameistad/pagesprune/internal/pages"
	"github.com/ameistad/pagesprune/internal/ui"
)

// HandleAPIError reports a failed provider call on the console. It never
// stops the run; callers decide whether to carry on.
func HandleAPIError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *pages.APIError
	if !errors.As(err, &apiErr) {
		ui.Error("Unexpected error: %v", err)
		logging.Ctx(ctx).Debug().Err(err).Msg("Unclassified API error")
		return
	}

	switch apiErr.Kind {
	case pages.KindResponse:
		ui.Error("API responded with status %d: %s", apiErr.StatusCode, apiErr.Body)
	case pages.KindNoResponse:
		ui.Error("No response received: %v", apiErr)
	default:
		ui.Error("Error setting up the request: %v", apiErr.Err)
	}

	logging.Ctx(ctx).Debug().
		Err(apiErr.Err).
		Str("kind", apiErr.Kind.String()).
		Str(logging.LogFieldMethod, apiErr.Method).
		Str("url", apiErr.URL).
		Int(logging.LogFieldStatus, apiErr.StatusCode).
		Msg("API call failed")
}
