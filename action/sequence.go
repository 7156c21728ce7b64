// Package action defines the per-configuration actions (clean, build,
// extract, run, events) as ordered steps and walks them one operation at a
// time, gating later steps on the outcome of earlier ones.
package action

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrResultPending is returned by Next when the previous operation's
	// result has not been reported yet.
	ErrResultPending = errors.New("result of previous operation not reported")
	// ErrUnknownAction is returned for an action name that does not exist.
	ErrUnknownAction = errors.New("unknown action")
)

// Operation is a single primitive step. Exactly one of Args or Run is set for
// real work; an operation with neither is an explicit no-op that succeeds.
type Operation struct {
	Name string
	// Args is the external process invocation.
	Args []string
	// Run is an in-process step (copying files, archiving).
	Run func() error
}

// IsNoop reports whether the operation has nothing to execute.
func (o Operation) IsNoop() bool {
	return len(o.Args) == 0 && o.Run == nil
}

// StepResult is the outcome of one step of an action.
type StepResult struct {
	Name     string        `json:"name"`
	Args     []string      `json:"args,omitempty"`
	Success  bool          `json:"success"`
	Skipped  bool          `json:"skipped,omitempty"`
	ExitCode int           `json:"exit_code"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type step struct {
	name string
	// gated steps only run when every previous step succeeded
	gated bool
	// prepare is called when the step is reached, not when the sequence is
	// built, so names and globs reflect the state at that moment
	prepare func() (Operation, error)
}

// Sequence walks the steps of one action for one configuration.
type Sequence struct {
	action   string
	steps    []step
	pos      int
	pending  bool
	ok       bool
	results  []StepResult
	archives []string
	release  func()
}

func newSequence(action string, steps ...step) *Sequence {
	return &Sequence{action: action, steps: steps, ok: true}
}

// Action returns the action name.
func (s *Sequence) Action() string { return s.action }

// Next returns the next operation to execute. It returns false once the
// action is complete. Gated steps are recorded as skipped when an earlier
// step failed. An error from preparing a step ends the sequence.
func (s *Sequence) Next() (Operation, bool, error) {
	if s.pending {
		return Operation{}, false, ErrResultPending
	}
	for s.pos < len(s.steps) {
		st := s.steps[s.pos]
		s.pos++

		if st.gated && !s.ok {
			s.results = append(s.results, StepResult{Name: st.name, Skipped: true})
			continue
		}

		op, err := st.prepare()
		if err != nil {
			s.ok = false
			s.results = append(s.results, StepResult{Name: st.name, Error: err.Error(), ExitCode: -1})
			s.pos = len(s.steps)
			s.finish()
			return Operation{}, false, fmt.Errorf("%s: %s: %w", s.action, st.name, err)
		}
		if op.Name == "" {
			op.Name = st.name
		}
		s.pending = true
		return op, true, nil
	}
	s.finish()
	return Operation{}, false, nil
}

// Report records the outcome of the operation last returned by Next.
func (s *Sequence) Report(r StepResult) {
	if !s.pending {
		return
	}
	s.pending = false
	if !r.Success {
		s.ok = false
	}
	s.results = append(s.results, r)
}

// Succeeded reports whether every executed step succeeded so far.
func (s *Sequence) Succeeded() bool { return s.ok }

// Results returns the step results recorded so far.
func (s *Sequence) Results() []StepResult {
	out := make([]StepResult, len(s.results))
	copy(out, s.results)
	return out
}

// Archives returns the archive files written by the sequence.
func (s *Sequence) Archives() []string { return s.archives }

// Close releases resources held by the sequence. It is safe to call more
// than once and is called automatically once the sequence completes.
func (s *Sequence) Close() { s.finish() }

func (s *Sequence) finish() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}
