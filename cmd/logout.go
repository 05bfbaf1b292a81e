// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"bzm-mcp/cli/internal/keychain"
)

// logoutCmd removes the key pair stored by login. Key files on disk are left alone.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the BlazeMeter API key from the OS keychain",
	Long: `The logout command deletes the API key saved by 'bzm-mcp login' from the OS
keychain. API key files referenced by --api-key-file, BLAZEMETER_API_KEY or
placed next to the executable are not touched.`,
	Annotations: map[string]string{skipApp: "true"},

	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.NewManager()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.Clear(); err != nil {
			return err
		}
		pterm.Success.Println("Stored API key removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
