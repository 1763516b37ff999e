package logging

import (
	"context"
	"log/slog"

	"github.com/mytheresa/ecommerce-back-end/app/requestid"
)

var _ slog.Handler = (*enrichedHandler)(nil)

// enrichedHandler adds the request id found in the context to every record.
type enrichedHandler struct {
	h slog.Handler
}

func newEnrichedHandler(h slog.Handler) enrichedHandler {
	return enrichedHandler{h: h}
}

func (eh enrichedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return eh.h.Enabled(ctx, level)
}

func (eh enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := requestid.FromContext(ctx); ok {
		r.Add("request_id", slog.StringValue(id))
	}
	return eh.h.Handle(ctx, r)
}

func (eh enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newEnrichedHandler(eh.h.WithAttrs(attrs))
}

func (eh enrichedHandler) WithGroup(name string) slog.Handler {
	return newEnrichedHandler(eh.h.WithGroup(name))
}
