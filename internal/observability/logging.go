package observability

import (
	"context"
	"log/slog"
	"os"
)

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// Base is the logger used by RepoLogger when none is supplied. The server
// replaces it with the request-context-aware logger at startup.
var Base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

// LogCreate logs a successful insert.
func (l *RepoLogger) LogCreate(ctx context.Context, id any) {
	Base.DebugContext(ctx, "record created", slog.String("table", l.tableName), slog.Any("id", id))
}

// LogDelete logs a successful delete along with the number of affected rows.
func (l *RepoLogger) LogDelete(ctx context.Context, id any, rows int64) {
	Base.InfoContext(ctx, "record deleted",
		slog.String("table", l.tableName), slog.Any("id", id), slog.Int64("rows", rows))
}

// LogError logs a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, operation string, err error) {
	Base.ErrorContext(ctx, "repository operation failed",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
