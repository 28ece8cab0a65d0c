package plugin

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
)

// PanicRecoveryMiddleware converts a panic inside a handler into a
// PanicError so the host receives a status instead of crashing.
func PanicRecoveryMiddleware() Middleware {
	return func(next ActionHandler) ActionHandler {
		return func(ctx context.Context, call *ActionCall) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &errors.PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			return next(ctx, call)
		}
	}
}

// LoggingMiddleware logs every action and its outcome.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ActionHandler) ActionHandler {
		return func(ctx context.Context, call *ActionCall) error {
			logger.DebugContext(ctx, "handling action",
				"plugin", call.Plugin,
				"action", call.Action.String(),
				"effect", call.Effect.String())

			err := next(ctx, call)
			if err != nil {
				logger.ErrorContext(ctx, "action failed",
					"plugin", call.Plugin,
					"action", call.Action.String(),
					"status", errors.ToStatus(err).String(),
					"error", err)
				return err
			}
			logger.DebugContext(ctx, "action completed",
				"plugin", call.Plugin,
				"action", call.Action.String())
			return nil
		}
	}
}

// MetricsMiddleware reports the status and duration of every action.
func MetricsMiddleware(rec ports.Recorder) Middleware {
	return func(next ActionHandler) ActionHandler {
		return func(ctx context.Context, call *ActionCall) error {
			start := time.Now()
			err := next(ctx, call)
			rec.ObserveAction(call.Plugin, call.Action, errors.ToStatus(err), time.Since(start))
			return err
		}
	}
}
