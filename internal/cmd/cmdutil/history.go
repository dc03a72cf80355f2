package cmdutil

import (
	"context"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/history"
	"github.com/agentstation/bangmap/pkg/logging"
)

// Recorded runs fn between a before and an after snapshot of the output
// directory, recorded under the history directory.
func Recorded(ctx context.Context, s application.Settings, operation string, fn func(context.Context) error) error {
	_, err := history.New(s.HistoryDir).Do(ctx, s.OutputDir, operation, fn)
	return err
}

// Context returns ctx carrying the application logger tagged with operation.
// Stages log through logging.FromContext.
func Context(ctx context.Context, app application.Application, operation string) context.Context {
	return logging.WithOperation(logging.WithLogger(ctx, app.Logger()), operation)
}
