package utils

import (
	"context"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/term"
)

func ContextLogger(ctx context.Context, args ...any) *slog.Logger {
	return slogctx.FromCtx(ctx).With(args...)
}

func IsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
