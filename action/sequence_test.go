package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(args ...string) func() (Operation, error) {
	return func() (Operation, error) { return Operation{Args: args}, nil }
}

func drain(t *testing.T, s *Sequence, fail map[string]bool) []string {
	t.Helper()
	var executed []string
	for {
		op, ok, err := s.Next()
		require.NoError(t, err)
		if !ok {
			return executed
		}
		executed = append(executed, op.Name)
		s.Report(StepResult{Name: op.Name, Success: !fail[op.Name]})
	}
}

func TestSequenceRunsAllStepsOnSuccess(t *testing.T) {
	s := newSequence("test",
		step{name: "a", prepare: fixed("a")},
		step{name: "b", prepare: fixed("b")},
		step{name: "c", gated: true, prepare: fixed("c")},
	)

	assert.Equal(t, []string{"a", "b", "c"}, drain(t, s, nil))
	assert.True(t, s.Succeeded())
	assert.Len(t, s.Results(), 3)
}

func TestSequenceGatesAfterFailure(t *testing.T) {
	s := newSequence("test",
		step{name: "a", prepare: fixed("a")},
		step{name: "b", prepare: fixed("b")},
		step{name: "c", prepare: fixed("c")},
		step{name: "d", gated: true, prepare: fixed("d")},
		step{name: "e", gated: true, prepare: fixed("e")},
	)

	// ungated steps still run after a failure, gated ones do not
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, s, map[string]bool{"a": true}))
	assert.False(t, s.Succeeded())

	results := s.Results()
	require.Len(t, results, 5)
	assert.False(t, results[0].Success)
	assert.True(t, results[3].Skipped)
	assert.True(t, results[4].Skipped)
}

func TestSequenceRequiresReport(t *testing.T) {
	s := newSequence("test",
		step{name: "a", prepare: fixed("a")},
		step{name: "b", prepare: fixed("b")},
	)

	_, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = s.Next()
	require.ErrorIs(t, err, ErrResultPending)

	s.Report(StepResult{Success: true})
	op, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", op.Name)
}

func TestSequencePrepareErrorEndsSequence(t *testing.T) {
	boom := errors.New("boom")
	released := false
	s := newSequence("test",
		step{name: "a", prepare: func() (Operation, error) { return Operation{}, boom }},
		step{name: "b", prepare: fixed("b")},
	)
	s.release = func() { released = true }

	_, ok, err := s.Next()
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.True(t, released)

	_, ok, err = s.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Succeeded())
}

func TestOperationIsNoop(t *testing.T) {
	assert.True(t, Operation{Name: "x"}.IsNoop())
	assert.False(t, Operation{Args: []string{"true"}}.IsNoop())
	assert.False(t, Operation{Run: func() error { return nil }}.IsNoop())
}
