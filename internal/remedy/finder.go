// Package remedy finds failed state machine executions inside a time window
// and resubmits them with their original input. Execute mode mutates the
// remote service; dry-run is the default and issues no mutating calls.
package remedy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// ExecutionAPI is the remote capability the finder needs. ListFailedExecutions
// must push the FAILED status filter down to the service so only failed
// executions cross the wire.
type ExecutionAPI interface {
	ListFailedExecutions(ctx context.Context, stateMachineARN, cursor string) (execs []domain.Execution, next string, err error)
	ExecutionInput(ctx context.Context, executionARN string) (string, error)
}

// Finder locates failed executions for one state machine.
type Finder struct {
	api    ExecutionAPI
	logger *slog.Logger
	now    func() time.Time
}

// NewFinder builds a finder.
func NewFinder(api ExecutionAPI, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{api: api, logger: logger, now: time.Now}
}

// FindFailed returns the failed executions that started strictly after
// now - days, each with its original input payload. The boundary is open: an
// execution that started exactly at the cutoff is excluded. A failed input
// fetch for one execution skips it with a warning and the scan continues; a
// failed page pull aborts.
func (f *Finder) FindFailed(ctx context.Context, stateMachineARN string, days int) ([]domain.Execution, error) {
	cutoff := f.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	var found []domain.Execution
	cursor := ""
	for {
		execs, next, err := f.api.ListFailedExecutions(ctx, stateMachineARN, cursor)
		if err != nil {
			return nil, fmt.Errorf("list failed executions for %s: %w", stateMachineARN, err)
		}

		for _, exec := range execs {
			if !exec.StartTime.UTC().After(cutoff) {
				continue
			}

			input, err := f.api.ExecutionInput(ctx, exec.ARN)
			if err != nil {
				f.logger.Warn("could not fetch execution input, skipping",
					"execution", exec.ARN, "error", err)
				continue
			}
			exec.StateMachineARN = stateMachineARN
			exec.Input = input
			found = append(found, exec)
		}

		if next == "" {
			return found, nil
		}
		cursor = next
	}
}
