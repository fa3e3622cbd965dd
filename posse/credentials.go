package posse

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// Credentials is the persisted token bundle for the syndication server.
type Credentials struct {
	Server       string `toml:"server"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AccessToken  string `toml:"access_token"`
}

// LoadCredentials reads a credential bundle from the given path.
func LoadCredentials(path string) (*Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, fmt.Errorf("credentials %s: %w", path, err)
	}
	if creds.Server == "" || creds.AccessToken == "" {
		return nil, fmt.Errorf("credentials %s: incomplete bundle", path)
	}
	return &creds, nil
}

// Save writes the credential bundle to the given path, readable only by the
// process owner.
func (c *Credentials) Save(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// A Source yields the process's syndication client. The credential file is
// read once, on first use; the file is written only by the one-time
// registration at startup.
type Source struct {
	path string

	once   sync.Once
	client *Client
	err    error
}

// NewSource returns a Source that lazily loads the bundle at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// NewStaticSource returns a Source that always yields the given client.
func NewStaticSource(client *Client) *Source {
	s := &Source{}
	s.once.Do(func() { s.client = client })
	return s
}

// Client returns the syndication client, loading credentials on first call.
func (s *Source) Client() (*Client, error) {
	s.once.Do(func() {
		creds, err := LoadCredentials(s.path)
		if err != nil {
			s.err = err
			return
		}
		s.client = NewClient(creds)
	})
	return s.client, s.err
}
