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

// ProjectManager reads and lists projects.
type ProjectManager struct {
	gw    Doer
	tests *TestManager
}

// Read returns one project with an authoritative tests_count taken from a
// one-item test listing. A failure of that second call is returned instead of
// the project.
func (m *ProjectManager) Read(ctx context.Context, projectID int64) (*envelope.Result, error) {
	res, err := m.gw.Do(ctx, gateway.Request{Path: path(ProjectsEndpoint, projectID)}, format.Projects)
	if err != nil || res.Failed() {
		return res, err
	}
	project, ok := res.First().(*format.Project)
	if !ok {
		return res, nil
	}

	count, err := m.tests.List(ctx, projectID, gateway.Window{Limit: 1, Offset: 0})
	if err != nil {
		return nil, err
	}
	if count.Failed() {
		return envelope.Fail(count.Error), nil
	}
	// No total means the count is unknown; keep the project's own estimate.
	if count.Total != nil {
		project.TestsCount = *count.Total
	}
	return res, nil
}

// List returns the projects of a workspace.
func (m *ProjectManager) List(ctx context.Context, workspaceID int64, w gateway.Window) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{
		Path:   ProjectsEndpoint,
		Query:  url.Values{"workspaceId": {strconv.FormatInt(workspaceID, 10)}},
		Window: &w,
	}, format.Projects)
}
