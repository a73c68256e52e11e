package online

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
)

const (
	sectionStart = "# Created by "
	sectionEnd   = "# End of "
)

// Gitignore talks to a gitignore.io style generator API.
type Gitignore struct {
	client
}

// NewGitignore returns a client for the generator at baseURL.
func NewGitignore(baseURL string, opts ...Option) *Gitignore {
	return &Gitignore{client: newClient(baseURL, opts)}
}

// List returns the language identifiers the service knows about.
func (g *Gitignore) List(ctx context.Context) ([]string, error) {
	body, err := g.get(ctx, "list?format=lines")
	if err != nil {
		if stderrors.Is(err, errStatusNotFound) {
			return nil, errors.NotFound("gitignore language list", g.baseURL)
		}
		return nil, err
	}

	var languages []string
	for _, line := range strings.Split(string(body), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			languages = append(languages, line)
		}
	}
	return languages, nil
}

// Generate fetches the ignore rules for languages.
func (g *Gitignore) Generate(ctx context.Context, languages []string) (string, error) {
	escaped := make([]string, len(languages))
	for i, lang := range languages {
		escaped[i] = url.PathEscape(lang)
	}
	body, err := g.get(ctx, strings.Join(escaped, ","))
	if err != nil {
		if stderrors.Is(err, errStatusNotFound) {
			return "", errors.NotFound("gitignore template", strings.Join(languages, ",")).
				WithHint("Run 'forage-dev ignore' to list the supported languages")
		}
		return "", err
	}
	return string(body), nil
}

// AddOrUpdate adds languages to the generated section of an ignore file.
// The languages already in the section are kept, the section is regenerated
// and the rest of the file is left untouched. Content without a generated
// section gets one appended.
func (g *Gitignore) AddOrUpdate(ctx context.Context, content string, languages []string) (string, error) {
	section := findSection(content)

	merged := mergeLanguages(section.languages, languages)
	generated, err := g.Generate(ctx, merged)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(generated, "\n") {
		generated += "\n"
	}

	if section.found {
		return content[:section.start] + generated + content[section.end:], nil
	}

	switch {
	case content == "":
		return generated, nil
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + generated, nil
	default:
		return content + "\n\n" + generated, nil
	}
}

type section struct {
	found      bool
	start, end int
	languages  []string
}

// findSection locates the generated block, from its "# Created by .../api/<langs>"
// line through the matching "# End of" line (or the end of the file).
func findSection(content string) section {
	var s section
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !s.found && strings.HasPrefix(trimmed, sectionStart):
			if idx := strings.LastIndex(trimmed, "/api/"); idx >= 0 {
				s.found = true
				s.start = offset
				s.languages = splitLanguages(trimmed[idx+len("/api/"):])
			}
		case s.found && strings.HasPrefix(trimmed, sectionEnd):
			s.end = offset + len(line)
			return s
		}
		offset += len(line)
	}
	if s.found {
		s.end = len(content)
	}
	return s
}

func splitLanguages(list string) []string {
	var out []string
	for _, lang := range strings.Split(list, ",") {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

// mergeLanguages returns existing followed by the new languages not already
// present, lowercased and without duplicates.
func mergeLanguages(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	var out []string
	for _, list := range [][]string{existing, added} {
		for _, lang := range splitLanguages(strings.Join(list, ",")) {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	return out
}
