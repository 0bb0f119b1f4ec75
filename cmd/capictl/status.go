package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [linkedin|quora]",
		Short: "Query the readiness probe of a provider endpoint",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	provider := args[0]
	if err := validateProvider(provider); err != nil {
		return err
	}

	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	code, body, err := client.do(cmd.Context(), http.MethodGet, "/"+provider+"/?status=1", nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("status probe returned %d: %s", code, strings.TrimSpace(string(body)))
	}

	var status rest.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("decoding status response: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider:  %s\n", provider)
	fmt.Fprintf(out, "Env:       %s\n", status.Env)
	fmt.Fprintf(out, "Token:     %s\n", tokenStatus(status.HasToken))
	fmt.Fprintf(out, "Now:       %s\n", time.Unix(status.Now, 0).UTC().Format(time.RFC3339))
	if status.PixelID != "" {
		fmt.Fprintf(out, "Pixel ID:  %s\n", status.PixelID)
	}
	return nil
}

func tokenStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "MISSING"
}
