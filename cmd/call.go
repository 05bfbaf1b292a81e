// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bzm-mcp/cli/internal/tools"
)

var callArgs string

// callCmd runs one tool action outside an MCP session and prints its envelope.
var callCmd = &cobra.Command{
	Use:   "call <tool> <action>",
	Short: "Run a single tool action and print the result",
	Long: `The call command dispatches one action of one tool exactly as an MCP client
would and prints the resulting JSON envelope. The tool may be given with or
without the blazemeter_ prefix.

  bzm-mcp call tests list --args '{"project_id": 123, "limit": 5}'`,
	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !strings.HasPrefix(name, tools.Prefix+"_") {
			name = tools.Prefix + "_" + name
		}
		tool, ok := current.catalog.Get(name)
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}

		var raw map[string]any
		if strings.TrimSpace(callArgs) != "" {
			dec := json.NewDecoder(strings.NewReader(callArgs))
			dec.UseNumber()
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("parse --args: %w", err)
			}
		}

		res := tool.Call(cmd.Context(), args[1], raw)
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, b, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.String())
		if res.Failed() {
			return fmt.Errorf("%s %s failed", name, args[1])
		}
		return nil
	},
}

func init() {
	callCmd.Flags().StringVar(&callArgs, "args", "", "Action arguments as a JSON object")
	rootCmd.AddCommand(callCmd)
}
