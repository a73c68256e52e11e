package tasks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// git runs a git command in dir. A non-zero exit is a system error. A process
// that ends without an exit code (killed by a signal) is logged and treated
// as success.
func git(ctx context.Context, a *app.App, dir string, args ...string) error {
	logging.Debug("running git", "dir", dir, "args", args)

	var stderr bytes.Buffer
	status, err := a.Executor.Run(ctx, system.Process{
		Name:   "git",
		Args:   args,
		Dir:    dir,
		Stderr: &stderr,
	})
	if err != nil {
		return errors.SystemWrap("failed to launch git", err).
			WithHint("Make sure git is installed and on your PATH")
	}

	if !status.Exited {
		logging.Warn("git terminated without an exit code, assuming success",
			"dir", dir, "args", args)
		return nil
	}
	if status.Code != 0 {
		msg := fmt.Sprintf("git %s exited with status %d", strings.Join(args, " "), status.Code)
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			msg += ": " + detail
		}
		return errors.System(msg, "")
	}
	return nil
}

// gitSucceeds runs a git query and reports whether it exited with status 0.
func gitSucceeds(ctx context.Context, a *app.App, dir string, args ...string) (bool, error) {
	status, err := a.Executor.Run(ctx, system.Process{Name: "git", Args: args, Dir: dir})
	if err != nil {
		return false, errors.SystemWrap("failed to launch git", err).
			WithHint("Make sure git is installed and on your PATH")
	}
	return status.Success(), nil
}

// GitInit initializes a git repository.
type GitInit struct{}

func (GitInit) String() string { return "git-init" }

func (GitInit) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	return git(ctx, a, repo.Path(), "init", "--quiet")
}

func (GitInit) ApplyScratchpad(context.Context, *app.App, workspace.Scratchpad) error {
	return nil
}

// GitCheckout creates the branch or resets it to the current commit, then
// checks it out.
type GitCheckout struct {
	Branch string
}

func (t GitCheckout) String() string { return "git-checkout " + t.Branch }

func (t GitCheckout) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	return git(ctx, a, repo.Path(), "checkout", "--quiet", "-B", t.Branch)
}

func (GitCheckout) ApplyScratchpad(context.Context, *app.App, workspace.Scratchpad) error {
	return nil
}

// GitNewBranch creates Branch from From (HEAD when empty) unless it exists.
type GitNewBranch struct {
	Branch string
	From   string
}

func (t GitNewBranch) String() string { return "git-new-branch " + t.Branch }

func (t GitNewBranch) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	exists, err := gitSucceeds(ctx, a, repo.Path(), "show-ref", "--verify", "--quiet", "refs/heads/"+t.Branch)
	if err != nil {
		return err
	}
	if exists {
		logging.Debug("branch already exists", "branch", t.Branch, "repository", repo.Name())
		return nil
	}

	args := []string{"branch", t.Branch}
	if t.From != "" {
		args = append(args, t.From)
	}
	return git(ctx, a, repo.Path(), args...)
}

func (GitNewBranch) ApplyScratchpad(context.Context, *app.App, workspace.Scratchpad) error {
	return nil
}

// GitRemote points the named remote at the repository's URL on its hosting
// service, adding the remote if needed.
type GitRemote struct {
	Name string
}

func (t GitRemote) String() string { return "git-remote " + t.Name }

func (t GitRemote) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	svc := a.Config().Service(repo.Domain())
	if svc == nil {
		return errors.User(
			fmt.Sprintf("no service configured for %s", repo.Domain()),
			"Add a service for this domain to your config, or use 'forage-dev config add'",
		)
	}
	url, err := svc.GitURLFor(repo)
	if err != nil {
		return errors.ConfigError("cannot build remote URL", err)
	}

	exists, err := gitSucceeds(ctx, a, repo.Path(), "remote", "get-url", t.Name)
	if err != nil {
		return err
	}
	if exists {
		return git(ctx, a, repo.Path(), "remote", "set-url", t.Name, url)
	}
	return git(ctx, a, repo.Path(), "remote", "add", t.Name, url)
}

func (GitRemote) ApplyScratchpad(context.Context, *app.App, workspace.Scratchpad) error {
	return nil
}
