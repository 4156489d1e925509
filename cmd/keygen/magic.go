package main

import (
	"crypto/rand"

	"github.com/spf13/cobra"

	"offlinelicense/internal/config"
	"offlinelicense/internal/license"
)

func newMagicCmd() *cobra.Command {
	var size, count int
	cmd := &cobra.Command{
		Use:   "magic",
		Short: "Print a random magic table in profile form",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := license.RandomMagic(rand.Reader, size, count)
			if err != nil {
				return err
			}
			out, err := config.MagicYAML(m)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", 3, "Number of magic chunks")
	cmd.Flags().IntVar(&count, "count", 4, "Bytes per chunk")
	return cmd
}
