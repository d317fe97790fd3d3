package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/procfilter/internal/config"
	"github.com/wagiedev/procfilter/internal/filter"
	"github.com/wagiedev/procfilter/internal/sink"
)

// DefaultMaxOutput caps the stdout and stderr returned by a tool call.
const DefaultMaxOutput = 1 << 20

// Tool names.
const (
	ToolExecute      = "execute"
	ToolRunProfile   = "run_profile"
	ToolListProfiles = "list_profiles"
)

// ToolConfig configures the procfilter tools.
type ToolConfig struct {
	// Options is the base configuration of each invocation. The
	// standard streams are always replaced per call.
	Options *config.Options

	// Registry provides the profiles for run_profile and list_profiles.
	Registry *config.Registry

	// MaxOutput caps captured stdout and stderr. Defaults to
	// DefaultMaxOutput.
	MaxOutput int
}

// ExecuteOutput is the JSON payload returned by execute and run_profile.
type ExecuteOutput struct {
	Invocation string `json:"invocation"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Truncated  bool   `json:"truncated,omitempty"`
}

// ProfileInfo is one entry of the list_profiles payload.
type ProfileInfo struct {
	Name        string   `json:"name"`
	Command     string   `json:"command"`
	Args        []string `json:"args,omitempty"`
	Description string   `json:"description,omitempty"`
}

type executeInput struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	Stdin   string   `json:"stdin"`
}

type runProfileInput struct {
	Profile string   `json:"profile"`
	Args    []string `json:"args"`
	Stdin   string   `json:"stdin"`
}

type tools struct {
	cfg ToolConfig
	log *slog.Logger
}

// RegisterTools adds execute, run_profile and list_profiles to s.
func RegisterTools(s *Server, cfg ToolConfig) {
	if cfg.Options == nil {
		cfg.Options = &config.Options{}
	}

	if cfg.Registry == nil {
		cfg.Registry = config.NewRegistry(nil)
	}

	if cfg.MaxOutput <= 0 {
		cfg.MaxOutput = DefaultMaxOutput
	}

	log := cfg.Options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	t := &tools{cfg: cfg, log: log.With("component", "mcp")}

	s.AddTool(NewTool(ToolExecute,
		"Run a command with optional standard input and return its exit code, stdout and stderr.",
		ObjectSchema(map[string]Property{
			"command": {Type: "string", Description: "Executable name or path", Required: true},
			"args":    {Type: "string[]", Description: "Command arguments"},
			"stdin":   {Type: "string", Description: "Data written to the command's standard input"},
		}),
	), t.execute)

	s.AddTool(NewTool(ToolRunProfile,
		"Run a configured command profile.",
		ObjectSchema(map[string]Property{
			"profile": {Type: "string", Description: "Profile name", Required: true},
			"args":    {Type: "string[]", Description: "Arguments appended to the profile's arguments"},
			"stdin":   {Type: "string", Description: "Data written to the command's standard input"},
		}),
	), t.runProfile)

	s.AddTool(NewTool(ToolListProfiles,
		"List the configured command profiles.",
		ObjectSchema(nil),
	), t.listProfiles)
}

func (t *tools) execute(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in executeInput
	if err := BindArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	if in.Command == "" {
		return ErrorResult("command is required"), nil
	}

	return t.run(in.Command, in.Args, in.Stdin)
}

func (t *tools) runProfile(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in runProfileInput
	if err := BindArguments(req, &in); err != nil {
		return ErrorResult(err.Error()), nil
	}

	profile, ok := t.cfg.Registry.Get(in.Profile)
	if !ok {
		return ErrorResult(fmt.Sprintf("unknown profile: %q", in.Profile)), nil
	}

	args := slices.Concat(profile.Args, in.Args)

	return t.run(profile.Command, args, in.Stdin)
}

func (t *tools) listProfiles(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := t.cfg.Registry.Names()
	profiles := make([]ProfileInfo, 0, len(names))

	for _, name := range names {
		p, _ := t.cfg.Registry.Get(name)
		profiles = append(profiles, ProfileInfo{
			Name:        name,
			Command:     p.Command,
			Args:        p.Args,
			Description: p.Description,
		})
	}

	return JSONResult(profiles)
}

// run executes one command with captured output. Transport failures
// become error results; a non-zero exit code does not.
func (t *tools) run(name string, args []string, stdin string) (*mcp.CallToolResult, error) {
	opts := *t.cfg.Options

	stdout := sink.NewCapped(t.cfg.MaxOutput)
	stderr := sink.NewCapped(t.cfg.MaxOutput)

	opts.Stdin = strings.NewReader(stdin)
	opts.Stdout = stdout
	opts.Stderr = stderr

	res, err := filter.Execute(&opts, name, args)
	if err != nil {
		t.log.Debug("Tool invocation failed", "name", name, "error", err)

		return ErrorResult(err.Error()), nil
	}

	return JSONResult(ExecuteOutput{
		Invocation: res.ID,
		ExitCode:   res.ExitCode,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Truncated:  stdout.Truncated() || stderr.Truncated(),
	})
}
