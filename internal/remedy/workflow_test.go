package remedy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfilipelino/aws-tools/internal/core/domain"
)

type startCall struct {
	stateMachineARN string
	name            string
	input           string
}

type fakeStarter struct {
	calls  []startCall
	errOn  map[string]error // keyed by input payload
	nextID int
}

func (f *fakeStarter) StartExecution(_ context.Context, smARN, name, input string) (string, error) {
	f.calls = append(f.calls, startCall{stateMachineARN: smARN, name: name, input: input})
	if err, ok := f.errOn[input]; ok {
		return "", err
	}
	f.nextID++
	return smARN + ":exec:new-" + string(rune('0'+f.nextID)), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorkflow(starter Starter) *Workflow {
	w := NewWorkflow(starter, testLogger())
	w.now = func() time.Time { return time.Date(2024, 7, 1, 10, 30, 45, 0, time.UTC) }
	w.suffix = func() string { return "ab12cd34" }
	return w
}

func failedExecs(n int) []domain.Execution {
	execs := make([]domain.Execution, n)
	for i := range execs {
		execs[i] = domain.Execution{
			StateMachineARN: "arn:sm:orders",
			ARN:             "arn:sm:orders:exec:e" + string(rune('1'+i)),
			Name:            "order-batch-" + string(rune('1'+i)),
			Status:          domain.ExecutionStatusFailed,
			Input:           `{"batch":` + string(rune('1'+i)) + `}`,
		}
	}
	return execs
}

func TestDryRunIssuesNoMutatingCalls(t *testing.T) {
	starter := &fakeStarter{}
	w := testWorkflow(starter)

	outcomes := w.Run(context.Background(), failedExecs(3), ModeDryRun)

	require.Len(t, outcomes, 3)
	assert.Empty(t, starter.calls, "dry-run must not start executions")
	for i, o := range outcomes {
		assert.Equal(t, domain.OutcomeWouldRetry, o.Status)
		assert.Equal(t, failedExecs(3)[i].ARN, o.Execution)
		assert.Equal(t, failedExecs(3)[i].Input, o.Input)
	}
}

func TestExecuteStartsOneExecutionPerDescriptor(t *testing.T) {
	starter := &fakeStarter{}
	w := testWorkflow(starter)
	execs := failedExecs(2)

	outcomes := w.Run(context.Background(), execs, ModeExecute)

	require.Len(t, starter.calls, 2)
	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		assert.Equal(t, domain.OutcomeRetried, o.Status)
		assert.Equal(t, execs[i].ARN, o.Execution)
		assert.NotEmpty(t, o.NewExecution)
		assert.Equal(t, execs[i].Input, starter.calls[i].input)
	}
}

func TestExecutePartialFailureContinues(t *testing.T) {
	execs := failedExecs(2)
	starter := &fakeStarter{errOn: map[string]error{
		execs[1].Input: errors.New("AccessDeniedException: not authorized"),
	}}
	w := testWorkflow(starter)

	outcomes := w.Run(context.Background(), execs, ModeExecute)

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.OutcomeRetried, outcomes[0].Status)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, execs[1].ARN, outcomes[1].Execution)
	assert.Contains(t, outcomes[1].Error, "AccessDeniedException")
	// The second failure did not suppress this call count.
	assert.Len(t, starter.calls, 2)
}

func TestOutcomeCountMatchesInputCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		starter := &fakeStarter{}
		w := testWorkflow(starter)
		outcomes := w.Run(context.Background(), failedExecs(n), ModeExecute)
		assert.Len(t, outcomes, n)
	}
}

func TestRetryNameDerivation(t *testing.T) {
	starter := &fakeStarter{}
	w := testWorkflow(starter)

	w.Run(context.Background(), failedExecs(1), ModeExecute)

	require.Len(t, starter.calls, 1)
	assert.Equal(t, "retry-order-batch-1-20240701-103045-ab12cd34", starter.calls[0].name)
}

func TestRetryNameTruncatedToServiceLimit(t *testing.T) {
	starter := &fakeStarter{}
	w := testWorkflow(starter)

	long := domain.Execution{
		StateMachineARN: "arn:sm:orders",
		ARN:             "arn:sm:orders:exec:long",
		Name:            strings.Repeat("x", 120),
		Input:           "{}",
	}
	w.Run(context.Background(), []domain.Execution{long}, ModeExecute)

	require.Len(t, starter.calls, 1)
	name := starter.calls[0].name
	assert.Len(t, name, 80)
	assert.True(t, strings.HasPrefix(name, "retry-xxx"))
	assert.True(t, strings.HasSuffix(name, "-20240701-103045-ab12cd34"))
}

func TestOutcomeRecordShapes(t *testing.T) {
	o := domain.RetryOutcome{
		Status:    domain.OutcomeFailed,
		Execution: "arn:sm:orders:exec:e1",
		Error:     "boom",
	}
	rec := o.Record()
	assert.Equal(t, []string{"original_execution", "status", "error"}, rec.Names())
	assert.Equal(t, "failed", rec.GetString("status"))
}
