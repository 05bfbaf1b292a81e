// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of bzm-mcp. The default
// command explains how to register the server with an MCP client; --mcp (or
// serve) runs the stdio tool server; the remaining commands call BlazeMeter
// directly or manage the stored API key.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bzm-mcp/cli/internal/config"
	"bzm-mcp/cli/internal/credential"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/keychain"
	"bzm-mcp/cli/internal/logging"
	"bzm-mcp/cli/internal/metrics"
	"bzm-mcp/cli/internal/platform"
	"bzm-mcp/cli/internal/tools"
	"bzm-mcp/cli/internal/upload"
)

var (
	runMCP      bool
	logLevel    string
	apiKeyFile  string
	metricsAddr string
)

// skipApp marks commands that must not resolve a credential or build a gateway.
const skipApp = "skip-app"

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	cred     *credential.Credential
	registry *prometheus.Registry
	gw       *gateway.Gateway
	client   *platform.Client
	catalog  *tools.Catalog
}

var current *app

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bzm-mcp",
	Short: "BlazeMeter tools for AI assistants (MCP server)",
	Long: `bzm-mcp exposes the BlazeMeter REST API as tools for AI assistants that speak the
Model Context Protocol. Run it with --mcp from your MCP client; run it without
arguments to see the client configuration and whether an API key was found.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipApp] == "true" {
			return nil
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			_ = current.log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if runMCP {
			return runServer(cmd.Context(), current)
		}
		printBanner(current)
		return nil
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("bzm-mcp", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&runMCP, "mcp", false, "Run the MCP stdio server")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warning, error, critical (default from config, else error)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFile, "api-key-file", "", "Path to the BlazeMeter api-key.json file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the server runs, e.g. 127.0.0.1:9464")
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if apiKeyFile != "" {
		cfg.APIKeyFile = apiKeyFile
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	src := credential.Sources{KeyFile: cfg.APIKeyFile, Logger: log}
	if exe, err := os.Executable(); err == nil {
		src.Executable = exe
	}
	if km, err := keychain.NewManager(); err == nil {
		src.Keychain = km
	} else {
		log.Debug("keychain unavailable", zap.Error(err))
	}
	cred := credential.Resolve(src)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	gw := gateway.New(gateway.Options{
		BaseURL:        cfg.BaseURL,
		Credential:     cred,
		UserAgent:      gateway.UserAgent(Version),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
		Metrics:        m,
	})
	uploader := upload.New(gw, upload.Options{
		Concurrency: cfg.Upload.Concurrency,
		Timeout:     cfg.Upload.Timeout,
		Logger:      log,
		Metrics:     m,
	})
	client := platform.New(gw, platform.Options{AppURL: cfg.AppURL, Uploader: uploader})

	return &app{
		cfg:      cfg,
		log:      log,
		cred:     cred,
		registry: reg,
		gw:       gw,
		client:   client,
		catalog:  tools.NewCatalog(client, log),
	}, nil
}

const logo = `  ____  _                __  __      _
 | __ )| | __ _ _______ |  \/  | ___| |_ ___ _ __
 |  _ \| |/ _' |_  / _ \| |\/| |/ _ \ __/ _ \ '__|
 | |_) | | (_| |/ /  __/| |  | |  __/ ||  __/ |
 |____/|_|\__,_/___\___||_|  |_|\___|\__\___|_|`

// clientConfig is the snippet an MCP client needs to launch this binary.
func clientConfig() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "bzm-mcp"
	}
	snippet := map[string]any{
		"BlazeMeter MCP": map[string]any{
			"command": exe,
			"args":    []string{"--mcp"},
		},
	}
	b, _ := json.MarshalIndent(snippet, "", "    ")
	lines := strings.Split(string(b), "\n")
	return strings.Join(lines[1:len(lines)-1], "\n")
}

func printBanner(a *app) {
	pterm.Println(logo)
	pterm.Println()
	pterm.Printf(" BlazeMeter MCP Server v%s\n\n", Version)

	pterm.DefaultSection.Println("MCP Server Configuration")
	pterm.Println("In your tool with MCP server support, locate the MCP server configuration file")
	pterm.Println("and add the following server to the server list.")
	pterm.Println()
	pterm.Println(clientConfig())
	pterm.Println()

	if a.cred == nil {
		pterm.Error.Println("BlazeMeter API Key not configured.")
		pterm.Println("  Copy the API key file (api-key.json) next to this executable, point")
		pterm.Printf("  %s or --api-key-file at it, or run 'bzm-mcp login --api-key-file <path>'.\n", config.EnvAPIKeyFile)
		pterm.Println("  How to obtain the file: https://help.blazemeter.com/docs/guide/api-blazemeter-api-keys.html")
	} else {
		pterm.Success.Printf("BlazeMeter API Key configured (%s).\n", a.cred)
	}
	pterm.Println()
	if p, err := config.Path(); err == nil {
		pterm.Printf(" Settings file: %s\n", p)
	}
	pterm.Println(" More configuration options: https://github.com/Blazemeter/bzm-mcp/")
}
