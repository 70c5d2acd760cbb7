package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Server is one remembered version selection.
type Server struct {
	Address string `toml:"address"`
	Version string `toml:"version"`
}

type serversFile struct {
	Servers []Server `toml:"server"`
}

// ServerStore is the persisted per-server version selection.
type ServerStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
}

// LoadServers reads servers.toml. A missing file yields an empty store bound to path.
func LoadServers(path string) (*ServerStore, error) {
	store := &ServerStore{path: path, entries: make(map[string]string)}
	var raw serversFile
	if err := loadToml(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, err
	}
	for i, entry := range raw.Servers {
		if err := ValidateServerEntry(entry); err != nil {
			return nil, fmt.Errorf("server[%d] invalid: %w", i, err)
		}
		addr := NormalizeAddress(entry.Address)
		if _, dup := store.entries[addr]; dup {
			return nil, fmt.Errorf("server[%d] invalid: duplicate address %q", i, addr)
		}
		store.entries[addr] = strings.TrimSpace(entry.Version)
	}
	return store, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerEntry(s Server) error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("address is required")
	}
	if strings.TrimSpace(s.Version) == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// NormalizeAddress lower-cases the host part and trims whitespace.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func (s *ServerStore) Path() string {
	return s.path
}

// Lookup returns the saved version for addr.
func (s *ServerStore) Lookup(addr string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[NormalizeAddress(addr)]
	return v, ok
}

// Set records a selection in memory. Call Save to persist it.
func (s *ServerStore) Set(addr, ver string) error {
	entry := Server{Address: addr, Version: ver}
	if err := ValidateServerEntry(entry); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[NormalizeAddress(addr)] = strings.TrimSpace(ver)
	return nil
}

// Entries returns the selections ordered by address.
func (s *ServerStore) Entries() []Server {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Server, 0, len(s.entries))
	for addr, ver := range s.entries {
		out = append(out, Server{Address: addr, Version: ver})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address < out[j].Address
	})
	return out
}

// Save writes the store to its path, replacing the file atomically.
func (s *ServerStore) Save() error {
	data, err := toml.Marshal(serversFile{Servers: s.Entries()})
	if err != nil {
		return fmt.Errorf("encode servers: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save servers (%s): %w", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("save servers (%s): %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("save servers (%s): %w", s.path, err)
	}
	return nil
}
