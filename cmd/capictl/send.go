package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/DanielPopoola/capi-relay/internal/interfaces/rest"
	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [linkedin|quora]",
		Short: "POST a conversion event read from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runSend,
	}

	cmd.Flags().StringP("file", "f", "-", "JSON event file, - for stdin")
	cmd.Flags().Bool("dry-run", false, "Build the provider payload without delivering it")

	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	provider := args[0]
	if err := validateProvider(provider); err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	raw, err := readEvent(cmd, file)
	if err != nil {
		return err
	}
	body, err := prepareEvent(raw, dryRun)
	if err != nil {
		return err
	}

	client, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	code, respBody, err := client.do(cmd.Context(), http.MethodPost, "/"+provider, body)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case code == http.StatusNoContent:
		fmt.Fprintln(out, "skipped: no consent")
		return nil
	case code >= 200 && code < 300:
		return printJSON(out, respBody)
	}

	var failure rest.ErrorResponse
	if err := json.Unmarshal(respBody, &failure); err == nil && failure.Code != "" {
		return fmt.Errorf("relay returned %d: %s", code, failure.Code)
	}
	return fmt.Errorf("relay returned %d: %s", code, strings.TrimSpace(string(respBody)))
}

func readEvent(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

// prepareEvent checks raw is a JSON object and forces dryRun when asked.
func prepareEvent(raw []byte, dryRun bool) ([]byte, error) {
	var event map[string]any
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("event must be a JSON object: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event must be a JSON object")
	}
	if dryRun {
		event["dryRun"] = true
	}
	return json.Marshal(event)
}

func printJSON(out io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = out.Write(body)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
