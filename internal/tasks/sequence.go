package tasks

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// Sequence runs tasks one after another and stops at the first failure. The
// failing task's error is returned as is and earlier tasks are not undone.
type Sequence struct {
	tasks []Task
}

// NewSequence returns a Sequence running tasks in the given order.
func NewSequence(tasks ...Task) Sequence {
	return Sequence{tasks: append([]Task(nil), tasks...)}
}

// Tasks returns a copy of the task list.
func (s Sequence) Tasks() []Task {
	return append([]Task(nil), s.tasks...)
}

func (s Sequence) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	for i, task := range s.tasks {
		logging.Debug("running task", "step", i+1, "of", len(s.tasks), "task", taskName(task), "repository", repo.Name())
		if err := task.ApplyRepository(ctx, a, repo); err != nil {
			return err
		}
	}
	return nil
}

func (s Sequence) ApplyScratchpad(ctx context.Context, a *app.App, pad workspace.Scratchpad) error {
	for i, task := range s.tasks {
		logging.Debug("running task", "step", i+1, "of", len(s.tasks), "task", taskName(task), "scratchpad", pad.Name())
		if err := task.ApplyScratchpad(ctx, a, pad); err != nil {
			return err
		}
	}
	return nil
}

func taskName(t Task) string {
	if s, ok := t.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", t)
}
