// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for bzm-mcp, the BlazeMeter tool server for
// MCP clients.
package main

import (
	"bzm-mcp/cli/cmd"
)

func main() {
	cmd.Execute()
}
