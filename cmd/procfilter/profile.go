package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProfileCommand(c *cli) *cobra.Command {
	var flags streamFlags

	cmd := &cobra.Command{
		Use:   "profile [flags] <name> [-- extra args...]",
		Short: "Run a command profile from the config file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			profile, ok := c.registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown profile: %q", args[0])
			}

			if flags.compress == "" && flags.stdout != "" {
				flags.compress = profile.Compress
			}

			return c.invoke(&flags, profile.Command, slices.Concat(profile.Args, args[1:]))
		},
	}

	flags.register(cmd.Flags())

	return cmd
}

func newProfilesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the configured command profiles",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)

			for _, name := range c.registry.Names() {
				p, _ := c.registry.Get(name)
				command := strings.Join(append([]string{p.Command}, p.Args...), " ")

				fmt.Fprintf(w, "%s\t%s\t%s\n", name, command, p.Description)
			}

			return w.Flush()
		},
	}
}
