package remedy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

// Mode gates whether the workflow mutates the remote service.
type Mode string

const (
	// ModeDryRun reports what would be retried without issuing any
	// mutating call. This is the default mode.
	ModeDryRun Mode = "dry-run"

	// ModeExecute starts one new execution per failed execution.
	ModeExecute Mode = "execute"
)

// Starter is the remote start-execution capability. It fails with a named
// service error on a name collision or invalid input.
type Starter interface {
	StartExecution(ctx context.Context, stateMachineARN, name, input string) (newExecutionARN string, err error)
}

// Execution names are capped by the service.
const maxExecutionNameLen = 80

// Workflow resubmits failed executions. A single execution's failure never
// aborts processing of the remaining ones, and a retry is never retried
// within the same invocation.
type Workflow struct {
	starter Starter
	logger  *slog.Logger
	now     func() time.Time
	suffix  func() string
}

// NewWorkflow builds a retry workflow.
func NewWorkflow(starter Starter, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		starter: starter,
		logger:  logger,
		now:     time.Now,
		suffix:  func() string { return uuid.NewString()[:8] },
	}
}

// Run processes executions in input order and returns exactly one outcome
// per execution.
func (w *Workflow) Run(ctx context.Context, execs []domain.Execution, mode Mode) []domain.RetryOutcome {
	outcomes := make([]domain.RetryOutcome, 0, len(execs))
	for _, exec := range execs {
		outcomes = append(outcomes, w.runOne(ctx, exec, mode))
	}
	return outcomes
}

func (w *Workflow) runOne(ctx context.Context, exec domain.Execution, mode Mode) domain.RetryOutcome {
	if mode != ModeExecute {
		return domain.RetryOutcome{
			Status:    domain.OutcomeWouldRetry,
			Execution: exec.ARN,
			Input:     exec.Input,
		}
	}

	name := w.retryName(exec.Name)
	newARN, err := w.starter.StartExecution(ctx, exec.StateMachineARN, name, exec.Input)
	if err != nil {
		retryErr := &domain.RetryError{Execution: exec.ARN, Err: err}
		w.logger.Warn("retry failed", "execution", exec.ARN, "error", err)
		return domain.RetryOutcome{
			Status:    domain.OutcomeFailed,
			Execution: exec.ARN,
			Error:     retryErr.Error(),
		}
	}

	return domain.RetryOutcome{
		Status:       domain.OutcomeRetried,
		Execution:    exec.ARN,
		NewExecution: newARN,
	}
}

// retryName derives a unique name for the resubmitted execution. The
// timestamp makes repeated runs against the same failed execution distinct;
// the random suffix covers runs within the same second. The original name is
// truncated if needed to honor the service's length limit.
func (w *Workflow) retryName(original string) string {
	stamp := w.now().UTC().Format("20060102-150405")
	tail := fmt.Sprintf("-%s-%s", stamp, w.suffix())

	budget := maxExecutionNameLen - len("retry-") - len(tail)
	if len(original) > budget {
		original = original[:budget]
	}
	return "retry-" + original + tail
}
