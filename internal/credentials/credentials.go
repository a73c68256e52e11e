// Package credentials stores per-service secrets such as API tokens.
package credentials

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNoCredential is returned when no secret is stored for a service.
var ErrNoCredential = errors.New("no credential stored")

// KeyChain stores secrets keyed by service (usually a host name).
type KeyChain interface {
	Get(service string) (string, error)
	Set(service, secret string) error
	Delete(service string) error
}

func normalize(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}

// MemoryKeyChain is an in-process KeyChain.
type MemoryKeyChain struct {
	mu      sync.Mutex
	secrets map[string]string
}

// NewMemoryKeyChain returns an empty MemoryKeyChain.
func NewMemoryKeyChain() *MemoryKeyChain {
	return &MemoryKeyChain{secrets: make(map[string]string)}
}

func (k *MemoryKeyChain) Get(service string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	secret, ok := k.secrets[normalize(service)]
	if !ok {
		return "", ErrNoCredential
	}
	return secret, nil
}

func (k *MemoryKeyChain) Set(service, secret string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.secrets[normalize(service)] = secret
	return nil
}

func (k *MemoryKeyChain) Delete(service string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	key := normalize(service)
	if _, ok := k.secrets[key]; !ok {
		return ErrNoCredential
	}
	delete(k.secrets, key)
	return nil
}

// Services returns the stored service names in sorted order.
func (k *MemoryKeyChain) Services() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	names := make([]string, 0, len(k.secrets))
	for name := range k.secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
