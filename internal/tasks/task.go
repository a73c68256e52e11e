package tasks

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// Task is a unit of setup work. It has one operation per target variant; an
// operation that has no meaning for a variant succeeds without doing anything.
type Task interface {
	ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error
	ApplyScratchpad(ctx context.Context, a *app.App, pad workspace.Scratchpad) error
}

// Apply runs task against target, dispatching on the target variant.
func Apply(ctx context.Context, a *app.App, task Task, target workspace.Target) error {
	switch t := target.(type) {
	case workspace.Repository:
		return task.ApplyRepository(ctx, a, t)
	case workspace.Scratchpad:
		return task.ApplyScratchpad(ctx, a, t)
	default:
		return errors.System(fmt.Sprintf("unsupported target type %T", target), "")
	}
}
