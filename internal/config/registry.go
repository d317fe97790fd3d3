package config

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds the named profiles available to the CLI and the MCP
// server. It is populated at start-up and safe for concurrent reads.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry creates a registry holding profiles.
func NewRegistry(profiles map[string]Profile) *Registry {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	maps.Copy(r.profiles, profiles)

	return r
}

// Register adds or replaces a profile.
func (r *Registry) Register(name string, p Profile) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}

	if p.Command == "" {
		return fmt.Errorf("profile %q: command is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[name] = p

	return nil
}

// Get looks up a profile by name.
func (r *Registry) Get(name string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[name]

	return p, ok
}

// Names returns the profile names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.profiles))
}
