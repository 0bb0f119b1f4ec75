package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "capictl",
		Short:         "capictl - operator tool for the conversion relay",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8080", "Base URL of the relay")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "HTTP timeout")

	rootCmd.AddCommand(hashCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(sendCmd())

	return rootCmd
}
