// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"bzm-mcp/cli/internal/credential"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/keychain"
	"bzm-mcp/cli/internal/platform"
)

// loginCmd validates an api-key.json file against BlazeMeter and stores the
// key pair in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Store a BlazeMeter API key in the OS keychain",
	Long: `The login command reads a BlazeMeter API key file (the api-key.json downloaded
from the BlazeMeter settings page), checks it by reading the current user, and
saves the key pair in the OS keychain. The server falls back to the keychain
when no key file is configured.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		path := apiKeyFile
		if path == "" {
			path = current.cfg.APIKeyFile
		}
		if path == "" {
			return errors.New("login needs --api-key-file <path to api-key.json>")
		}
		cred, err := credential.FromFile(path)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		gw := gateway.New(gateway.Options{
			BaseURL:        current.cfg.BaseURL,
			Credential:     cred,
			UserAgent:      gateway.UserAgent(Version),
			RequestTimeout: current.cfg.RequestTimeout,
			Logger:         current.log,
		})
		u, err := readUser(ctx, os.Stderr, platform.New(gw, platform.Options{AppURL: current.cfg.AppURL}), current.cfg.BaseURL)
		if err != nil {
			return err
		}

		km, err := keychain.NewManager()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.SaveAPIKey(cred.ID(), cred.Secret()); err != nil {
			return err
		}

		name := cred.ID()
		if u.DisplayName != nil && *u.DisplayName != "" {
			name = *u.DisplayName
		}
		pterm.Success.Printf("API key %s saved for %s\n", cred, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
