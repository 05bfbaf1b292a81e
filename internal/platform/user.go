// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
)

// UserManager reads the user owning the API key.
type UserManager struct {
	gw Doer
}

// Read returns the current user.
func (m *UserManager) Read(ctx context.Context) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: UserEndpoint}, format.Users)
}
