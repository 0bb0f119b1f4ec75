package main

import (
	"fmt"

	"github.com/DanielPopoola/capi-relay/internal/domain"
	"github.com/spf13/cobra"
)

func hashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [value...]",
		Short: "Print the SHA-256 digest a provider would receive for each identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, _ := cmd.Flags().GetBool("hashed")
			detect, _ := cmd.Flags().GetBool("detect")

			for _, raw := range args {
				var digest string
				var ok bool
				if detect {
					digest, ok = domain.EnsureHashed(raw)
				} else {
					digest, ok = domain.HashIdentifier(raw, hashed)
				}
				if !ok {
					return fmt.Errorf("identifier %q is blank", raw)
				}
				fmt.Fprintln(cmd.OutOrStdout(), digest)
			}
			return nil
		},
	}

	cmd.Flags().Bool("hashed", false, "Treat input as already hashed (LinkedIn semantics)")
	cmd.Flags().Bool("detect", false, "Keep input that already looks like a digest (Quora semantics)")
	cmd.MarkFlagsMutuallyExclusive("hashed", "detect")

	return cmd
}
