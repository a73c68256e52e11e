package online

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/credentials"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/logging"
)

// errStatusNotFound is returned by client.get for HTTP 404 responses.
var errStatusNotFound = stderrors.New("not found")

// client is a thin HTTP client shared by the registry and ignore services.
type client struct {
	baseURL    string
	httpClient *http.Client
	keys       credentials.KeyChain
}

// Option configures an online client.
type Option func(*client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		cl.httpClient = c
	}
}

// WithKeyChain makes requests carry a bearer token when the keychain holds
// one for the endpoint's host.
func WithKeyChain(k credentials.KeyChain) Option {
	return func(cl *client) {
		cl.keys = k
	}
}

func newClient(baseURL string, opts []Option) client {
	c := client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// get performs a GET request for path below the base URL and returns the
// response body.
func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Network("failed to create request", err)
	}
	c.authorize(req)

	logging.Debug("fetching", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(fmt.Sprintf("failed to fetch %s", url), err).
			WithHint("Check your network connection and try again")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errStatusNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Credential(
			fmt.Sprintf("%s returned status %d", url, resp.StatusCode), nil,
		).WithHint(fmt.Sprintf("Store a token with 'forage-dev auth %s'", req.URL.Hostname()))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Network(fmt.Sprintf("%s returned status %d", url, resp.StatusCode), nil)
	}

	return body, nil
}

func (c *client) authorize(req *http.Request) {
	if c.keys == nil {
		return
	}
	token, err := c.keys.Get(req.URL.Hostname())
	if err != nil {
		if !stderrors.Is(err, credentials.ErrNoCredential) {
			logging.Warn("failed to read credential", "host", req.URL.Hostname(), "error", err)
		}
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
