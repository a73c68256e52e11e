package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// ErrLocked is returned by FileSystem.Lock when another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (e *osExecutor) Run(ctx context.Context, p Process) (ExitStatus, error) {
	cmd := exec.CommandContext(ctx, p.Name, p.Args...)
	cmd.Dir = p.Dir
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	cmd.Stdin = p.Stdin
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr

	err := cmd.Run()
	if err == nil {
		return Exit(0), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Exited() {
			return Exit(exitErr.ExitCode()), nil
		}
		return Signaled(), nil
	}

	return ExitStatus{}, err
}
