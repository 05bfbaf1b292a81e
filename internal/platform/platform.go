// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package platform contains one manager per BlazeMeter resource family. Every
// manager funnels its calls through the gateway and returns an envelope.Result.
//
// Managers that compose several calls (project read, execution read, reports)
// issue them strictly in sequence because each call depends on the previous
// result.
package platform

import (
	"context"
	"fmt"

	"bzm-mcp/cli/internal/config"
	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/upload"
)

// Endpoint roots.
const (
	UserEndpoint       = "/user"
	AccountsEndpoint   = "/accounts"
	WorkspacesEndpoint = "/workspaces"
	ProjectsEndpoint   = "/projects"
	TestsEndpoint      = "/tests"
	ExecutionsEndpoint = "/masters"
)

// Doer performs one platform call. *gateway.Gateway implements it.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, format gateway.Formatter) (*envelope.Result, error)
}

// Options configures the managers.
type Options struct {
	// AppURL is the web application root used in execution links.
	AppURL string
	// Uploader runs test asset uploads. Nil builds one with default settings.
	Uploader *upload.Uploader
}

// Client bundles every resource manager over one gateway.
type Client struct {
	User      *UserManager
	Account   *AccountManager
	Workspace *WorkspaceManager
	Project   *ProjectManager
	Test      *TestManager
	Execution *ExecutionManager
	Report    *ReportManager
}

// New wires the managers together.
func New(gw Doer, opts Options) *Client {
	appURL := opts.AppURL
	if appURL == "" {
		appURL = config.DefaultAppURL
	}
	uploader := opts.Uploader
	if uploader == nil {
		uploader = upload.New(gw, upload.Options{})
	}

	tests := &TestManager{gw: gw, uploader: uploader}
	executions := &ExecutionManager{gw: gw, appURL: appURL}
	return &Client{
		User:      &UserManager{gw: gw},
		Account:   &AccountManager{gw: gw},
		Workspace: &WorkspaceManager{gw: gw},
		Project:   &ProjectManager{gw: gw, tests: tests},
		Test:      tests,
		Execution: executions,
		Report:    &ReportManager{gw: gw, executions: executions},
	}
}

func path(root string, id int64, rest ...string) string {
	p := fmt.Sprintf("%s/%d", root, id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
