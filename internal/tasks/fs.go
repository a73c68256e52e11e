package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/app"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// CreateDirectory makes sure the target directory exists.
type CreateDirectory struct{}

func (CreateDirectory) String() string { return "create-directory" }

func (CreateDirectory) ApplyRepository(_ context.Context, a *app.App, repo workspace.Repository) error {
	return mkdir(a, repo.Path())
}

func (CreateDirectory) ApplyScratchpad(_ context.Context, a *app.App, pad workspace.Scratchpad) error {
	return mkdir(a, pad.Path())
}

func mkdir(a *app.App, path string) error {
	if err := a.FS.MkdirAll(path, 0755); err != nil {
		return errors.IO(fmt.Sprintf("failed to create %s", path), err)
	}
	return nil
}

// WriteFile writes Content to Path, relative to the target directory. An
// existing file is kept unless Overwrite is set.
type WriteFile struct {
	Path      string
	Content   string
	Mode      fs.FileMode
	Overwrite bool
}

func (t WriteFile) String() string { return "write-file " + t.Path }

func (t WriteFile) ApplyRepository(_ context.Context, a *app.App, repo workspace.Repository) error {
	return t.write(a, repo.Path())
}

func (t WriteFile) ApplyScratchpad(_ context.Context, a *app.App, pad workspace.Scratchpad) error {
	return t.write(a, pad.Path())
}

func (t WriteFile) write(a *app.App, root string) error {
	path, err := securejoin.SecureJoin(root, t.Path)
	if err != nil {
		return errors.SystemWrap(fmt.Sprintf("invalid path %s", t.Path), err)
	}

	if !t.Overwrite && a.FS.Exists(path) {
		logging.Debug("file exists, leaving it alone", "path", path)
		return nil
	}

	if err := a.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.IO(fmt.Sprintf("failed to create %s", filepath.Dir(path)), err)
	}

	mode := t.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := a.FS.WriteFile(path, []byte(t.Content), mode); err != nil {
		return errors.IO(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
