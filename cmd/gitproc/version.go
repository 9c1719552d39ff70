package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/gitprocess"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gitproc and git versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "gitproc %s\n", version)

			v, err := gitprocess.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("determine git version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "git %s\n", v)
			return nil
		},
	}
}
