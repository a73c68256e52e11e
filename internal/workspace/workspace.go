package workspace

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names a Target variant.
type Kind string

const (
	KindRepository Kind = "repository"
	KindScratchpad Kind = "scratchpad"
)

// Target is either a Repository or a Scratchpad. The set is closed: code
// dispatching on a Target uses a type switch over the two variants.
type Target interface {
	Name() string
	Path() string
	Kind() Kind

	target()
}

// Repository is a local clone of a remote repository.
type Repository struct {
	name string
	path string
}

// NewRepository returns a repository with the canonical slash-delimited
// name (e.g. "github.com/alice/dotfiles") cloned at path.
func NewRepository(name, path string) Repository {
	return Repository{name: strings.Trim(name, "/"), path: path}
}

// Name returns the canonical name including the domain.
func (r Repository) Name() string { return r.name }

// Path returns the local clone path.
func (r Repository) Path() string { return r.path }

// Domain returns the first segment of the name.
func (r Repository) Domain() string {
	domain, _, _ := strings.Cut(r.name, "/")
	return domain
}

// FullName returns the name without its domain, e.g. "alice/dotfiles".
func (r Repository) FullName() string {
	_, rest, _ := strings.Cut(r.name, "/")
	return rest
}

func (r Repository) Kind() Kind { return KindRepository }

func (r Repository) String() string { return r.name }

func (Repository) target() {}

// Scratchpad is a throwaway working directory.
type Scratchpad struct {
	name string
	path string
}

// NewScratchpad returns a scratchpad labelled name located at path.
func NewScratchpad(name, path string) Scratchpad {
	return Scratchpad{name: name, path: path}
}

func (s Scratchpad) Name() string { return s.name }

func (s Scratchpad) Path() string { return s.path }

func (s Scratchpad) Kind() Kind { return KindScratchpad }

func (s Scratchpad) String() string { return s.name }

func (Scratchpad) target() {}

// validName matches safe labels and name segments: alphanumeric, hyphens, underscores, dots.
var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateName checks that a scratchpad label or repository name segment is
// safe for use in directory paths and branch names.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("name too long (max 128 characters)")
	}
	if !validName.MatchString(name) {
		return fmt.Errorf("name %q contains invalid characters (allowed: alphanumeric, hyphens, underscores, dots)", name)
	}
	return nil
}

// ValidateRepositoryName checks every segment of a slash-delimited name.
func ValidateRepositoryName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name must not be empty")
	}
	for _, segment := range strings.Split(name, "/") {
		if err := ValidateName(segment); err != nil {
			return fmt.Errorf("invalid repository name %q: %w", name, err)
		}
	}
	return nil
}
