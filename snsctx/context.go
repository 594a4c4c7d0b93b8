// Package snsctx carries per-call diagnostics settings through transports.
package snsctx

import (
	"context"
	"log/slog"
)

type ctxIndex int

const (
	ctxIndexVerbose ctxIndex = iota
	ctxIndexLogger
)

// IsVerbose reports whether raw bus frames should be dumped.
func IsVerbose(ctx context.Context) bool {
	val, ok := ctx.Value(ctxIndexVerbose).(bool)
	return ok && val
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxIndexVerbose, value)
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxIndexLogger, logger)
}

// Logger returns the logger attached to ctx or the default one.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxIndexLogger).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
