package common

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// LoggingMiddleware logs every dispatched request with its latency. Errors
// log at warn; the handler result is passed through untouched.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		start := time.Now()
		resp, err := next(ctx, request)
		elapsed := time.Since(start)

		evt := log.Debug()
		if err != nil {
			evt = log.Warn().Err(err)
		}
		evt.Str("request", fmt.Sprintf("%T", request)).
			Dur("elapsed", elapsed).
			Msg("request handled")

		return resp, err
	}
}
