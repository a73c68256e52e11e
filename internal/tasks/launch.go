package tasks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// Launch starts a configured app with the target as its working directory.
// The app's args and environment are templates evaluated against the
// target, e.g. "{{ .Target.Path }}". Extra args are appended verbatim.
type Launch struct {
	App   config.App
	Extra []string

	// Streams default to the process's own stdio.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (t Launch) String() string { return "launch " + t.App.Name }

func (t Launch) ApplyRepository(ctx context.Context, a *app.App, repo workspace.Repository) error {
	return t.launch(ctx, a, repo)
}

func (t Launch) ApplyScratchpad(ctx context.Context, a *app.App, pad workspace.Scratchpad) error {
	return t.launch(ctx, a, pad)
}

type launchData struct {
	Target workspace.Target
}

func (t Launch) launch(ctx context.Context, a *app.App, target workspace.Target) error {
	data := launchData{Target: target}

	args, err := renderAll(t.App.Args, data)
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid args for app %q", t.App.Name), err)
	}
	args = append(args, t.Extra...)

	env, err := renderAll(t.App.Environment, data)
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid environment for app %q", t.App.Name), err)
	}

	logging.Info("launching", "app", t.App.Name, "dir", target.Path(),
		"command", shellquote.Join(append([]string{t.App.Command}, args...)...))

	p := system.Process{
		Name:   t.App.Command,
		Args:   args,
		Dir:    target.Path(),
		Env:    env,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
		Stderr: t.Stderr,
	}
	if p.Stdin == nil {
		p.Stdin = os.Stdin
	}
	if p.Stdout == nil {
		p.Stdout = os.Stdout
	}
	if p.Stderr == nil {
		p.Stderr = os.Stderr
	}

	status, err := a.Executor.Run(ctx, p)
	if err != nil {
		return errors.SystemWrap(fmt.Sprintf("failed to launch %s", t.App.Command), err).
			WithHint(fmt.Sprintf("Check the command configured for the %q app", t.App.Name))
	}
	if !status.Exited {
		logging.Warn("app terminated without an exit code, assuming success", "app", t.App.Name)
		return nil
	}
	if status.Code != 0 {
		return errors.System(fmt.Sprintf("%s exited with status %d", t.App.Command, status.Code), "")
	}
	return nil
}

func renderAll(templates []string, data any) ([]string, error) {
	out := make([]string, 0, len(templates))
	for _, text := range templates {
		tmpl, err := template.New("arg").Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, err
		}
		out = append(out, buf.String())
	}
	return out, nil
}
