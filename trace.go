package verichain

import (
	"context"
	"log/slog"

	slogcontext "github.com/veqryn/slog-context"
)

// SlogTracer is a concrete Tracer (§6 "observable telemetry") built on
// log/slog plus github.com/veqryn/slog-context, the same pairing
// bindings/go/repository/component/pathmatcher/v1alpha1/spec_provider.go
// uses to attach request-scoped attributes to a logger pulled out of a
// context.Context (its slogcontext.FromCtx(ctx).With(...) call). It mirrors
// the source's printf traces described in §9 without ever writing to
// stdout directly, and without its own presence changing any verification
// outcome.
type SlogTracer struct {
	ctx context.Context
}

// NewSlogTracer builds a SlogTracer that logs through whichever *slog.Logger
// is attached to ctx via slog-context, falling back to slog.Default if none
// is attached.
func NewSlogTracer(ctx context.Context) SlogTracer {
	return SlogTracer{ctx: ctx}
}

func (t SlogTracer) Hop(subjectCN string, pathlen int, kind FailKind) {
	logger := slogcontext.FromCtx(t.ctx)
	attrs := []slog.Attr{
		slog.String("subject_cn", subjectCN),
		slog.Int("pathlen", pathlen),
	}
	if kind == 0 {
		logger.LogAttrs(t.ctx, slog.LevelDebug, "chain hop ok", attrs...)
		return
	}
	attrs = append(attrs, slog.String("outcome", kind.String()))
	logger.LogAttrs(t.ctx, slog.LevelDebug, "chain hop failed", attrs...)
}
