package eventbus

import (
	"context"
	"log/slog"

	"github.com/xzdarcy/rete/internal/ctxlog"
)

// LogEmitter writes every event to the logger found in the context. Error
// events are logged at error level, everything else at warn level.
type LogEmitter struct{}

// Emit implements Emitter.
func (LogEmitter) Emit(ctx context.Context, name string, payload any) {
	logger := ctxlog.FromContext(ctx)
	switch p := payload.(type) {
	case ErrorPayload:
		logger.Log(ctx, levelFor(name), p.Message, "event", name, "data", p.Data)
	case error:
		logger.Log(ctx, levelFor(name), "Component failure.", "event", name, "error", p)
	default:
		logger.Log(ctx, levelFor(name), "Engine event.", "event", name, "payload", p)
	}
}

func levelFor(name string) slog.Level {
	if name == EventError {
		return slog.LevelError
	}
	return slog.LevelWarn
}
