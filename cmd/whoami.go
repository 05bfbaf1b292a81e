// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the BlazeMeter user owning the resolved API key.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the BlazeMeter user behind the configured API key",
	Long: `The whoami command resolves the API key the server would use (key file flag,
BLAZEMETER_API_KEY, api-key.json next to the executable, then the OS keychain)
and asks BlazeMeter who it belongs to. Use it to check a setup before wiring
the server into an MCP client.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if current.cred == nil {
			pterm.Warning.Println("No BlazeMeter API key found.")
			pterm.Println("   Run 'bzm-mcp login --api-key-file <path>' to store one.")
			return nil
		}
		u, err := readUser(cmd.Context(), os.Stderr, current.client, current.cfg.BaseURL)
		if err != nil {
			return err
		}
		pterm.Info.Printf("API key %s\n", current.cred)
		printUser(u)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
