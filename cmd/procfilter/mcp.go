package main

import (
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wagiedev/procfilter/internal/mcp"
)

func newMCPCommand(c *cli) *cobra.Command {
	var maxOutput int

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the procfilter tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer("procfilter", version)
			mcp.RegisterTools(server, mcp.ToolConfig{
				Options:   c.options(),
				Registry:  c.registry,
				MaxOutput: maxOutput,
			})

			c.log.Info("Serving MCP tools on stdio", "tools", len(server.Tools()))

			return server.Serve(ctx, &mcpsdk.StdioTransport{})
		},
	}

	cmd.Flags().IntVar(&maxOutput, "max-output", mcp.DefaultMaxOutput, "Maximum bytes of stdout and stderr returned per call")

	return cmd
}
