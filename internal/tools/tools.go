// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tools declares the tool catalog: one tool per BlazeMeter resource,
// each backed by a router over the platform managers.
package tools

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/platform"
	"bzm-mcp/cli/internal/router"
)

// Prefix is shared by every tool name.
const Prefix = "blazemeter"

// Tool names.
const (
	UserTool       = Prefix + "_user"
	AccountTool    = Prefix + "_account"
	WorkspacesTool = Prefix + "_workspaces"
	ProjectTool    = Prefix + "_project"
	TestsTool      = Prefix + "_tests"
	ExecutionTool  = Prefix + "_execution"
)

// Tool is one callable tool.
type Tool struct {
	Name        string
	Description string
	Router      *router.Router
}

// Call dispatches action with args.
func (t *Tool) Call(ctx context.Context, action string, args map[string]any) *envelope.Result {
	return t.Router.Dispatch(ctx, action, args)
}

// InputSchema is the JSON schema advertised for the tool's arguments.
func (t *Tool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        t.Router.Actions(),
				"description": "The action to perform.",
			},
			"args": map[string]any{
				"type":                 "object",
				"description":          "Arguments of the action.",
				"additionalProperties": true,
			},
		},
		"required": []string{"action"},
	}
}

// Catalog holds the tools by name.
type Catalog struct {
	tools map[string]*Tool
}

// NewCatalog builds every tool over client.
func NewCatalog(client *platform.Client, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{tools: map[string]*Tool{}}
	for _, t := range []*Tool{
		{Name: UserTool, Description: userDescription, Router: router.New("user", userActions(client), log)},
		{Name: AccountTool, Description: accountDescription, Router: router.New("account", accountActions(client), log)},
		{Name: WorkspacesTool, Description: workspacesDescription, Router: router.New("workspaces", workspaceActions(client), log)},
		{Name: ProjectTool, Description: projectDescription, Router: router.New("project", projectActions(client), log)},
		{Name: TestsTool, Description: testsDescription, Router: router.New("tests", testActions(client), log)},
		{Name: ExecutionTool, Description: executionDescription, Router: router.New("execution", executionActions(client), log)},
	} {
		c.tools[t.Name] = t
	}
	return c
}

// Get returns the named tool.
func (c *Catalog) Get(name string) (*Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// List returns the tools sorted by name.
func (c *Catalog) List() []*Tool {
	out := make([]*Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Tool) int { return strings.Compare(a.Name, b.Name) })
	return out
}

type idParams struct{ ID int64 }

func idDecoder(key string) func(router.Args) (idParams, error) {
	return func(a router.Args) (idParams, error) {
		id, err := a.Int64(key)
		return idParams{ID: id}, err
	}
}

type listParams struct {
	ParentID int64
	Window   gateway.Window
}

// listDecoder reads a required parent id (when parentKey is set) and the
// optional limit and offset.
func listDecoder(parentKey string) func(router.Args) (listParams, error) {
	return func(a router.Args) (listParams, error) {
		var p listParams
		var err error
		if parentKey != "" {
			if p.ParentID, err = a.Int64(parentKey); err != nil {
				return p, err
			}
		}
		if p.Window.Limit, err = a.IntOr("limit", gateway.DefaultLimit); err != nil {
			return p, err
		}
		p.Window.Offset, err = a.IntOr("offset", 0)
		return p, err
	}
}

func userActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"read": router.ActionFunc(func(ctx context.Context, _ router.Args) (*envelope.Result, error) {
			return c.User.Read(ctx)
		}),
	}
}

func accountActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"read": router.Typed(idDecoder("account_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Account.Read(ctx, p.ID)
		}),
		"list": router.Typed(listDecoder(""), func(ctx context.Context, p listParams) (*envelope.Result, error) {
			return c.Account.List(ctx, p.Window)
		}),
	}
}

func workspaceActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"read": router.Typed(idDecoder("workspace_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Workspace.Read(ctx, p.ID)
		}),
		"list": router.Typed(listDecoder("account_id"), func(ctx context.Context, p listParams) (*envelope.Result, error) {
			return c.Workspace.List(ctx, p.ParentID, p.Window)
		}),
	}
}

func projectActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"read": router.Typed(idDecoder("project_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Project.Read(ctx, p.ID)
		}),
		"list": router.Typed(listDecoder("workspace_id"), func(ctx context.Context, p listParams) (*envelope.Result, error) {
			return c.Project.List(ctx, p.ParentID, p.Window)
		}),
	}
}
