// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"
	"net/url"
	"strconv"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
)

// WorkspaceManager reads and lists workspaces.
type WorkspaceManager struct {
	gw Doer
}

// Read returns one workspace with owner, allowance and locations.
func (m *WorkspaceManager) Read(ctx context.Context, workspaceID int64) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: path(WorkspacesEndpoint, workspaceID)}, format.WorkspacesDetailed)
}

// List returns the workspaces of an account.
func (m *WorkspaceManager) List(ctx context.Context, accountID int64, w gateway.Window) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{
		Path:   WorkspacesEndpoint,
		Query:  url.Values{"accountId": {strconv.FormatInt(accountID, 10)}},
		Window: &w,
	}, format.Workspaces)
}
