package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/next-trace/scg-component-bus/componentbus"
)

// Logging logs every dispatch at debug level and failures at warn level.
func Logging(logger *slog.Logger) componentbus.DispatchMiddleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return func(next componentbus.DispatchFunc) componentbus.DispatchFunc {
		return func(ctx context.Context, d componentbus.Dispatch) error {
			start := time.Now()
			err := next(ctx, d)

			attrs := []slog.Attr{
				slog.String("type", d.MessageType.String()),
				slog.String("shape", d.Shape.String()),
				slog.Uint64("seq", d.Seq),
				slog.Duration("elapsed", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
				logger.LogAttrs(ctx, slog.LevelWarn, "dispatch failed", attrs...)

				return err
			}

			logger.LogAttrs(ctx, slog.LevelDebug, "dispatch", attrs...)

			return nil
		}
	}
}
