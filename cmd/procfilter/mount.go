package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wagiedev/procfilter/internal/mount"
)

func (c *cli) mounter() *mount.Mounter {
	runner := c.runner
	if runner == nil {
		runner = mount.NewRunner(c.options())
	}

	return mount.New(runner, c.log)
}

func newExportsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "exports <host>",
		Short: "List the directories exported by an NFS server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			exports, err := c.mounter().Exports(args[0])
			if err != nil {
				return err
			}

			for _, export := range exports {
				fmt.Fprintln(c.stdout, export)
			}

			return nil
		},
	}
}

func newMountCommand(c *cli) *cobra.Command {
	var (
		fstype  string
		options []string
	)

	cmd := &cobra.Command{
		Use:   "mount [-t fstype] [-o option]... <device> <mountpoint>",
		Short: "Mount a file system",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.mounter().Mount(args[0], args[1], fstype, options)
		},
	}

	cmd.Flags().StringVarP(&fstype, "type", "t", "auto", "File system type")
	cmd.Flags().StringArrayVarP(&options, "options", "o", nil, "Mount option, may be repeated")

	return cmd
}

func newNFSMountCommand(c *cli) *cobra.Command {
	var options []string

	cmd := &cobra.Command{
		Use:   "nfsmount [-o option]... <host> <dir> <mountpoint>",
		Short: "Mount the NFS export of host that contains dir",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			export, err := c.mounter().NFSMount(args[0], args[1], args[2], options)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.stdout, export)

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&options, "options", "o", nil, "Mount option, may be repeated")

	return cmd
}

func newUmountCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "umount <mountpoint>",
		Short: "Unmount a file system",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.mounter().Umount(args[0])
		},
	}
}
