package snsctx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerbose(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsVerbose(ctx))
	assert.True(t, IsVerbose(SetVerbose(ctx, true)))
	assert.False(t, IsVerbose(SetVerbose(ctx, false)))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), Logger(ctx))

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	Logger(WithLogger(ctx, l)).Info("frame", "len", 3)
	assert.Contains(t, buf.String(), "msg=frame len=3")
}
