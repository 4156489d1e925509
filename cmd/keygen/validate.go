package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"offlinelicense/internal/license"
)

type statusError struct{ status license.Status }

func (e statusError) Error() string { return "license key is " + e.status.String() }

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <key>",
		Short: "Validate a license key; exits non-zero unless it is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.operator()
			if err != nil {
				return err
			}
			status := op.ValidateString(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if status != license.Valid {
				return statusError{status}
			}
			return nil
		},
	}
}
