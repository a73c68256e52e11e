package online

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/tidwall/jsonc"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
)

// Registry is a remote catalog of configuration templates.
type Registry interface {
	// GetEntries returns the ids of the available entries.
	GetEntries(ctx context.Context) ([]string, error)

	// GetEntry fetches one entry by id.
	GetEntry(ctx context.Context, id string) (*Entry, error)
}

// Entry is a named configuration template.
type Entry struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Configs     []EntryConfig `json:"configs"`
}

// EntryConfig is a fragment of an entry for one platform.
type EntryConfig struct {
	Platform string        `json:"platform"`
	App      *EntryApp     `json:"app,omitempty"`
	Service  *EntryService `json:"service,omitempty"`
}

// EntryApp describes an application to add to the config.
type EntryApp struct {
	Name        string   `json:"name"`
	Command     string   `json:"command"`
	Args        []string `json:"args"`
	Environment []string `json:"environment"`
}

// EntryService describes a hosting service to add to the config.
type EntryService struct {
	Domain  string `json:"domain"`
	Website string `json:"website"`
	HTTPURL string `json:"httpUrl"`
	GitURL  string `json:"gitUrl"`
	Pattern string `json:"pattern"`
}

// HTTPRegistry reads the registry from <base>/index.json and <base>/<id>.json.
// Documents may contain comments and trailing commas.
type HTTPRegistry struct {
	client
}

// NewRegistry returns a registry served from baseURL.
func NewRegistry(baseURL string, opts ...Option) *HTTPRegistry {
	return &HTTPRegistry{client: newClient(baseURL, opts)}
}

func (r *HTTPRegistry) GetEntries(ctx context.Context) ([]string, error) {
	body, err := r.get(ctx, "index.json")
	if err != nil {
		if stderrors.Is(err, errStatusNotFound) {
			return nil, errors.NotFound("registry index", r.baseURL)
		}
		return nil, err
	}

	var ids []string
	if err := decode(body, &ids); err != nil {
		return nil, errors.Parse("malformed registry index", err)
	}
	return ids, nil
}

func (r *HTTPRegistry) GetEntry(ctx context.Context, id string) (*Entry, error) {
	body, err := r.get(ctx, url.PathEscape(id)+".json")
	if err != nil {
		if stderrors.Is(err, errStatusNotFound) {
			return nil, errors.NotFound("registry entry", id).
				WithHint("Run 'forage-dev config list' to see the available entries")
		}
		return nil, err
	}

	var entry Entry
	if err := decode(body, &entry); err != nil {
		return nil, errors.Parse(fmt.Sprintf("malformed registry entry %s", id), err)
	}
	return &entry, nil
}

func decode(body []byte, v any) error {
	return json.Unmarshal(jsonc.ToJSON(body), v)
}
