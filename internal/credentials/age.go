package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"github.com/firefly-engineering/firefly-forage/packages/forage-dev/internal/system"
)

const (
	IdentityFile = "identity.txt"
	SecretsFile  = "secrets.age"
)

// DefaultDir returns where the age keychain keeps its files:
// $XDG_DATA_HOME/forage-dev, else ~/.local/share/forage-dev.
func DefaultDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "forage-dev")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "forage-dev")
	}
	return filepath.Join(home, ".local", "share", "forage-dev")
}

// AgeKeyChain keeps secrets in a JSON map encrypted with age to a local
// X25519 identity. The identity is generated on the first Set.
type AgeKeyChain struct {
	fs  system.FileSystem
	dir string
}

// NewAgeKeyChain returns a keychain storing its files in dir.
func NewAgeKeyChain(fs system.FileSystem, dir string) *AgeKeyChain {
	return &AgeKeyChain{fs: fs, dir: dir}
}

func (k *AgeKeyChain) identityPath() string { return filepath.Join(k.dir, IdentityFile) }
func (k *AgeKeyChain) secretsPath() string  { return filepath.Join(k.dir, SecretsFile) }

func (k *AgeKeyChain) Get(service string) (string, error) {
	secrets, _, err := k.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[normalize(service)]
	if !ok {
		return "", ErrNoCredential
	}
	return secret, nil
}

func (k *AgeKeyChain) Set(service, secret string) error {
	secrets, identity, err := k.load()
	if err != nil {
		return err
	}
	if identity == nil {
		identity, err = k.createIdentity()
		if err != nil {
			return err
		}
	}
	secrets[normalize(service)] = secret
	return k.save(secrets, identity)
}

func (k *AgeKeyChain) Delete(service string) error {
	secrets, identity, err := k.load()
	if err != nil {
		return err
	}
	key := normalize(service)
	if _, ok := secrets[key]; !ok {
		return ErrNoCredential
	}
	delete(secrets, key)
	return k.save(secrets, identity)
}

// load returns the decrypted secrets and the identity, which is nil when none
// has been created yet.
func (k *AgeKeyChain) load() (map[string]string, *age.X25519Identity, error) {
	secrets := make(map[string]string)

	keyData, err := k.fs.ReadFile(k.identityPath())
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil, nil
		}
		return nil, nil, fmt.Errorf("reading identity: %w", err)
	}
	identity, err := parseIdentity(keyData)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := k.fs.ReadFile(k.secretsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, identity, nil
		}
		return nil, nil, fmt.Errorf("reading secrets: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, nil, fmt.Errorf("decrypting secrets: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("reading decrypted secrets: %w", err)
	}
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, nil, fmt.Errorf("decoding secrets: %w", err)
	}
	return secrets, identity, nil
}

func (k *AgeKeyChain) save(secrets map[string]string, identity *age.X25519Identity) error {
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, identity.Recipient())
	if err != nil {
		return fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing age encryption: %w", err)
	}

	if err := k.fs.WriteFile(k.secretsPath(), ciphertext.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing secrets: %w", err)
	}
	return nil
}

func (k *AgeKeyChain) createIdentity() (*age.X25519Identity, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}
	if err := k.fs.MkdirAll(k.dir, 0700); err != nil {
		return nil, fmt.Errorf("creating keychain directory: %w", err)
	}
	data := fmt.Sprintf("# public key: %s\n%s\n", identity.Recipient(), identity)
	if err := k.fs.WriteFile(k.identityPath(), []byte(data), 0600); err != nil {
		return nil, fmt.Errorf("writing identity: %w", err)
	}
	return identity, nil
}

// parseIdentity reads the first AGE-SECRET-KEY line, skipping comments.
func parseIdentity(data []byte) (*age.X25519Identity, error) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identity, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("parsing identity: %w", err)
		}
		return identity, nil
	}
	return nil, fmt.Errorf("parsing identity: no key found")
}
