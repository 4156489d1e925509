package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <seed>",
		Short: "Generate a license key for a seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.operator()
			if err != nil {
				return err
			}
			key, err := op.GenerateLicenseKey([]byte(args[0]))
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), op.SerializedKey(key))
			return nil
		},
	}
}
