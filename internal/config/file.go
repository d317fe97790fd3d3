package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wagiedev/procfilter/internal/sink"
)

// File is the on-disk YAML configuration.
type File struct {
	Log         LogConfig          `yaml:"log"`
	BufferSize  int                `yaml:"buffer_size"`
	PollTimeout string             `yaml:"poll_timeout"`
	KillSignal  string             `yaml:"kill_signal"`
	SearchPaths []string           `yaml:"search_paths"`
	Profiles    map[string]Profile `yaml:"profiles"`
}

// LogConfig selects the CLI log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Profile is a named command line kept in the config file.
type Profile struct {
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Description string   `yaml:"description"`
	Compress    string   `yaml:"compress"`
}

// Load reads and validates a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks field values.
func (f *File) Validate() error {
	if f.BufferSize < 0 {
		return fmt.Errorf("buffer_size must not be negative, got %d", f.BufferSize)
	}

	if _, err := f.pollTimeout(); err != nil {
		return err
	}

	if f.KillSignal != "" {
		if _, err := ParseSignal(f.KillSignal); err != nil {
			return fmt.Errorf("kill_signal: %w", err)
		}
	}

	switch f.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", f.Log.Format)
	}

	for name, p := range f.Profiles {
		if p.Command == "" {
			return fmt.Errorf("profile %q: command is required", name)
		}

		if _, err := sink.ParseCodec(p.Compress); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}

	return nil
}

func (f *File) pollTimeout() (time.Duration, error) {
	if f.PollTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(f.PollTimeout)
	if err != nil {
		return 0, fmt.Errorf("poll_timeout: %w", err)
	}

	return d, nil
}

// Apply copies file settings into opts. Fields already set on opts win.
func (f *File) Apply(opts *Options) {
	if opts.BufferSize == 0 {
		opts.BufferSize = f.BufferSize
	}

	if opts.PollTimeout == 0 {
		opts.PollTimeout, _ = f.pollTimeout()
	}

	if opts.KillSignal == 0 && f.KillSignal != "" {
		opts.KillSignal, _ = ParseSignal(f.KillSignal)
	}

	if len(f.SearchPaths) > 0 {
		opts.SearchPaths = append(opts.SearchPaths, f.SearchPaths...)
	}
}
