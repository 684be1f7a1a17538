// Package saga runs a fixed sequence of writes that cannot share a database
// transaction. When a step fails, the compensations of the steps that already
// succeeded run in reverse order.
package saga

import (
	"context"
	"errors"
	"fmt"
)

type OutcomeKind string

const (
	// Completed: every step succeeded.
	OutcomeCompleted OutcomeKind = "completed"
	// Failed: the first step failed, nothing to undo.
	OutcomeFailed OutcomeKind = "failed"
	// Compensated: a later step failed and every compensation succeeded.
	OutcomeCompensated OutcomeKind = "compensated"
	// Orphaned: a later step failed and at least one compensation failed too,
	// so state written by an earlier step is still in the store.
	OutcomeOrphaned OutcomeKind = "orphaned"
)

type Step struct {
	Name string
	// Action performs the write.
	Action func(ctx context.Context) error
	// Compensate undoes Action. Nil when there is nothing to undo.
	Compensate func(ctx context.Context) error
}

// Outcome is the tagged result of Run.
type Outcome struct {
	Kind OutcomeKind
	// FailedStep is the name of the step whose Action failed.
	FailedStep string
	// Cause is the error returned by the failed Action.
	Cause error
	// CompensationErr joins every failed compensation, set only when Kind is
	// OutcomeOrphaned.
	CompensationErr error
	// Unreverted lists the steps whose compensation failed.
	Unreverted []string
}

func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeCompleted
}

func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeCompleted:
		return nil
	case OutcomeOrphaned:
		return fmt.Errorf("saga step %q failed: %w (compensation failed: %v)", o.FailedStep, o.Cause, o.CompensationErr)
	default:
		return fmt.Errorf("saga step %q failed: %w", o.FailedStep, o.Cause)
	}
}

// Run executes steps in order and stops at the first failing Action.
// Compensations run with a context detached from ctx cancellation so that a
// client disconnect does not leave half-written state behind.
func Run(ctx context.Context, steps ...Step) Outcome {
	done := make([]Step, 0, len(steps))

	for _, step := range steps {
		if err := step.Action(ctx); err != nil {
			return compensate(context.WithoutCancel(ctx), step.Name, err, done)
		}
		done = append(done, step)
	}

	return Outcome{Kind: OutcomeCompleted}
}

func compensate(ctx context.Context, failedStep string, cause error, done []Step) Outcome {
	if len(done) == 0 {
		return Outcome{Kind: OutcomeFailed, FailedStep: failedStep, Cause: cause}
	}

	var (
		errs       []error
		unreverted []string
	)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
			unreverted = append(unreverted, step.Name)
		}
	}

	if len(errs) > 0 {
		return Outcome{
			Kind:            OutcomeOrphaned,
			FailedStep:      failedStep,
			Cause:           cause,
			CompensationErr: errors.Join(errs...),
			Unreverted:      unreverted,
		}
	}

	return Outcome{Kind: OutcomeCompensated, FailedStep: failedStep, Cause: cause}
}
