// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
)

// AccountManager reads and lists accounts.
type AccountManager struct {
	gw Doer
}

// Read returns one account.
func (m *AccountManager) Read(ctx context.Context, accountID int64) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: path(AccountsEndpoint, accountID)}, format.Accounts)
}

// List returns the accounts visible to the API key.
func (m *AccountManager) List(ctx context.Context, w gateway.Window) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: AccountsEndpoint, Window: &w}, format.Accounts)
}
