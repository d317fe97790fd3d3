package lookup

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wagiedev/procfilter/internal/errors"
)

// DefaultSearchPaths are searched after $PATH.
var DefaultSearchPaths = []string{
	"/sbin",
	"/usr/sbin",
	"/usr/local/sbin",
}

// Config holds configuration for executable resolution.
type Config struct {
	// SearchPaths are extra directories searched after $PATH and
	// DefaultSearchPaths.
	SearchPaths []string

	// Logger is an optional logger for resolution.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Resolver maps an executable name to a path.
type Resolver interface {
	// Resolve returns the path to execute for name or an
	// ExecutableNotFoundError.
	Resolve(name string) (string, error)
}

// resolver implements the Resolver interface.
type resolver struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that resolver implements Resolver.
var _ Resolver = (*resolver)(nil)

// NewResolver creates a new Resolver with the given configuration.
func NewResolver(cfg *Config) Resolver {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &resolver{
		cfg: cfg,
		log: log.With("component", "lookup"),
	}
}

// Resolve locates the executable for name.
func (r *resolver) Resolve(name string) (string, error) {
	if name == "" {
		return "", &errors.ExecutableNotFoundError{Name: name}
	}

	if strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, nil
		}

		r.log.Debug("Explicit executable path not usable", "path", name)

		return "", &errors.ExecutableNotFoundError{Name: name, SearchedPaths: []string{name}}
	}

	searchedPaths := make([]string, 0, 1+len(DefaultSearchPaths)+len(r.cfg.SearchPaths))

	if path, err := exec.LookPath(name); err == nil {
		r.log.Debug("Found executable in PATH", "name", name, "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	dirs := make([]string, 0, len(DefaultSearchPaths)+len(r.cfg.SearchPaths))
	dirs = append(dirs, DefaultSearchPaths...)
	dirs = append(dirs, r.cfg.SearchPaths...)

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		searchedPaths = append(searchedPaths, path)

		if isExecutable(path) {
			r.log.Debug("Found executable in fallback directory", "name", name, "path", path)

			return path, nil
		}
	}

	r.log.Debug("Executable not found", "name", name, "searched_paths", searchedPaths)

	return "", &errors.ExecutableNotFoundError{Name: name, SearchedPaths: searchedPaths}
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
