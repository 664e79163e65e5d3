package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog"
)

type memLog struct {
	mu      sync.Mutex
	entries []sagalog.SagaLog
}

func (m *memLog) Save(_ context.Context, e *sagalog.SagaLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memLog) List(_ context.Context, id string) ([]sagalog.SagaLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sagalog.SagaLog
	for _, e := range m.entries {
		if e.SagaID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLog) statuses() []sagalog.Status {
	var out []sagalog.Status
	for _, e := range m.entries {
		out = append(out, e.Status)
	}
	return out
}

type fakeStep struct {
	name    string
	err     error
	compErr error
	trace   *[]string
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Execute(context.Context) error {
	*s.trace = append(*s.trace, "exec:"+s.name)
	return s.err
}

func (s *fakeStep) Compensate(context.Context) error {
	*s.trace = append(*s.trace, "comp:"+s.name)
	return s.compErr
}

func TestOrchestratorRunsStepsInOrder(t *testing.T) {
	var trace []string
	log := &memLog{}
	steps := []Step{
		&fakeStep{name: "a", trace: &trace},
		&fakeStep{name: "b", trace: &trace},
	}

	err := NewOrchestrator("SS-1", steps, log).WithPayload(`{}`).Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"exec:a", "exec:b"}, trace)
	assert.Equal(t, []sagalog.Status{
		sagalog.StatusStarted, sagalog.StatusStepDone, sagalog.StatusStepDone, sagalog.StatusCompleted,
	}, log.statuses())
	assert.Equal(t, `{}`, log.entries[0].Payload)
}

func TestOrchestratorCompensatesInReverse(t *testing.T) {
	var trace []string
	log := &memLog{}
	boom := errors.New("boom")
	steps := []Step{
		&fakeStep{name: "a", trace: &trace},
		&fakeStep{name: "b", trace: &trace, compErr: errors.New("stuck")},
		&fakeStep{name: "c", trace: &trace, err: boom},
		&fakeStep{name: "d", trace: &trace},
	}

	err := NewOrchestrator("SS-2", steps, log).Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c:")

	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c", "comp:b", "comp:a"}, trace)

	last := log.entries[len(log.entries)-1]
	assert.Equal(t, sagalog.StatusFailed, last.Status)
	assert.Equal(t, "c", last.CurrentStep)
	assert.Equal(t, []string{"step c failed: boom", "compensation of b failed: stuck"}, last.Errors())
}

func TestOrchestratorWithoutLog(t *testing.T) {
	var trace []string
	err := NewOrchestrator("SS-3", []Step{&fakeStep{name: "a", trace: &trace}}, nil).Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"exec:a"}, trace)
}
