// Package resolver maps user-supplied names to workspace targets.
package resolver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/config"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/workspace"
)

// Resolver turns names into targets.
type Resolver interface {
	// Repository resolves a name to the location its clone should live at.
	// The clone does not need to exist.
	Repository(name string) (workspace.Repository, error)

	// Repositories lists the clones present on disk.
	Repositories() ([]workspace.Repository, error)

	// Best resolves a name to an existing clone, falling back to fuzzy
	// matching against Repositories.
	Best(name string) (workspace.Repository, error)

	// Scratchpad resolves a label to a scratchpad. An empty label means the
	// current ISO week.
	Scratchpad(label string) (workspace.Scratchpad, error)
}

// DevDirectory resolves names against the development directory layout
// <directory>/<domain>/<pattern>.
type DevDirectory struct {
	fs     system.FileSystem
	config func() *config.Config
	now    func() time.Time
}

// Option configures a DevDirectory.
type Option func(*DevDirectory)

// WithClock overrides the time source used for default scratchpad labels.
func WithClock(now func() time.Time) Option {
	return func(d *DevDirectory) { d.now = now }
}

// NewDevDirectory returns a resolver reading the current configuration from
// cfg on every call, so replaced snapshots are picked up.
func NewDevDirectory(fs system.FileSystem, cfg func() *config.Config, opts ...Option) *DevDirectory {
	d := &DevDirectory{fs: fs, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DevDirectory) Repository(name string) (workspace.Repository, error) {
	cfg := d.config()

	name = strings.Trim(name, "/")
	if target := cfg.Alias(name); target != "" {
		name = strings.Trim(target, "/")
	}
	if name == "" {
		return workspace.Repository{}, errors.User("repository name must not be empty", "")
	}

	canonical, err := canonicalName(cfg, name)
	if err != nil {
		return workspace.Repository{}, err
	}
	if err := workspace.ValidateRepositoryName(canonical); err != nil {
		return workspace.Repository{}, errors.User(err.Error(), "")
	}

	path, err := securejoin.SecureJoin(cfg.Directory, canonical)
	if err != nil {
		return workspace.Repository{}, errors.SystemWrap("failed to resolve repository path", err)
	}
	return workspace.NewRepository(canonical, path), nil
}

func canonicalName(cfg *config.Config, name string) (string, error) {
	parts := strings.Split(name, "/")

	if svc := cfg.Service(parts[0]); svc != nil && len(parts)-1 == svc.Depth() {
		return name, nil
	}
	if svc := cfg.DefaultService(); svc != nil && len(parts) == svc.Depth() {
		return svc.Domain + "/" + name, nil
	}

	return "", errors.User(
		fmt.Sprintf("cannot resolve repository %q", name),
		"use <domain>/<owner>/<name>, or <owner>/<name> for the default service",
	)
}

func (d *DevDirectory) Repositories() ([]workspace.Repository, error) {
	cfg := d.config()

	var repos []workspace.Repository
	for _, svc := range cfg.Services {
		root := filepath.Join(cfg.Directory, svc.Domain)
		if !d.fs.IsDir(root) {
			continue
		}
		found, err := d.walk(root, strings.Split(svc.Pattern, "/"))
		if err != nil {
			return nil, err
		}
		for _, rel := range found {
			repos = append(repos, workspace.NewRepository(
				svc.Domain+"/"+filepath.ToSlash(rel),
				filepath.Join(root, rel),
			))
		}
	}

	sort.Slice(repos, func(i, j int) bool { return repos[i].Name() < repos[j].Name() })
	return repos, nil
}

// walk returns the directories below root matching each pattern segment in
// turn, relative to root.
func (d *DevDirectory) walk(root string, segments []string) ([]string, error) {
	entries, err := d.fs.ReadDir(root)
	if err != nil {
		return nil, errors.IO(fmt.Sprintf("failed to list %s", root), err)
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if ok, _ := filepath.Match(segments[0], entry.Name()); !ok {
			continue
		}
		if len(segments) == 1 {
			found = append(found, entry.Name())
			continue
		}
		children, err := d.walk(filepath.Join(root, entry.Name()), segments[1:])
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			found = append(found, filepath.Join(entry.Name(), child))
		}
	}
	return found, nil
}

func (d *DevDirectory) Best(name string) (workspace.Repository, error) {
	if repo, err := d.Repository(name); err == nil && d.fs.IsDir(repo.Path()) {
		return repo, nil
	}

	repos, err := d.Repositories()
	if err != nil {
		return workspace.Repository{}, err
	}

	matches := rank(name, repos)
	if len(matches) == 0 {
		return workspace.Repository{}, errors.NotFound("repository", name)
	}
	if len(matches) > 1 && matches[0].score == matches[1].score {
		var names []string
		for _, m := range matches {
			if m.score != matches[0].score {
				break
			}
			names = append(names, m.repo.Name())
		}
		return workspace.Repository{}, errors.User(
			fmt.Sprintf("%q matches several repositories: %s", name, strings.Join(names, ", ")),
			"use a more specific name",
		)
	}
	return matches[0].repo, nil
}

type match struct {
	repo  workspace.Repository
	score int
}

// rank scores repos against pattern with fzf's matcher, best first.
func rank(pattern string, repos []workspace.Repository) []match {
	runes := []rune(strings.ToLower(pattern))
	slab := util.MakeSlab(100*1024, 2048)

	var matches []match
	for _, repo := range repos {
		chars := util.ToChars([]byte(repo.Name()))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, runes, false, slab)
		if result.Start < 0 || result.Score <= 0 {
			continue
		}
		matches = append(matches, match{repo: repo, score: result.Score})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	return matches
}

func (d *DevDirectory) Scratchpad(label string) (workspace.Scratchpad, error) {
	if label == "" {
		year, week := d.now().ISOWeek()
		label = fmt.Sprintf("%dw%02d", year, week)
	}
	if err := workspace.ValidateName(label); err != nil {
		return workspace.Scratchpad{}, errors.User(err.Error(), "")
	}

	path, err := securejoin.SecureJoin(d.config().ScratchDirectory(), label)
	if err != nil {
		return workspace.Scratchpad{}, errors.SystemWrap("failed to resolve scratchpad path", err)
	}
	return workspace.NewScratchpad(label, path), nil
}
