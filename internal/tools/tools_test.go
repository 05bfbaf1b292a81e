// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bzm-mcp/cli/internal/credential"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/platform"
)

func newCatalog(t *testing.T, h http.HandlerFunc, withCredential bool) (*Catalog, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	var cred *credential.Credential
	if withCredential {
		c, err := credential.New("id", "secret")
		require.NoError(t, err)
		cred = c
	}
	log := zaptest.NewLogger(t)
	gw := gateway.New(gateway.Options{
		BaseURL:    srv.URL,
		Credential: cred,
		HTTPClient: srv.Client(),
		Logger:     log,
	})
	return NewCatalog(platform.New(gw, platform.Options{}), log), hits
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestCatalogNamesAndActions(t *testing.T) {
	c, _ := newCatalog(t, okHandler(`{}`), true)

	var names []string
	for _, tool := range c.List() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.Equal(t, []string{
		"blazemeter_account",
		"blazemeter_execution",
		"blazemeter_project",
		"blazemeter_tests",
		"blazemeter_user",
		"blazemeter_workspaces",
	}, names)

	want := map[string][]string{
		UserTool:       {"read"},
		AccountTool:    {"list", "read"},
		WorkspacesTool: {"list", "read"},
		ProjectTool:    {"list", "read"},
		TestsTool:      {"configure", "create", "list", "read", "upload_assets"},
		ExecutionTool:  {"list", "read", "read_all_reports", "read_errors", "read_request_stats", "read_summary", "start"},
	}
	for name, actions := range want {
		tool, ok := c.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, actions, tool.Router.Actions(), name)
		for _, a := range actions {
			assert.Contains(t, tool.Description, "- "+a+":", "%s documents %s", name, a)
		}
	}
}

func TestInputSchema(t *testing.T) {
	c, _ := newCatalog(t, okHandler(`{}`), true)
	tool, _ := c.Get(AccountTool)

	b, err := json.Marshal(tool.InputSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"action": {"type": "string", "enum": ["list", "read"], "description": "The action to perform."},
			"args": {"type": "object", "description": "Arguments of the action.", "additionalProperties": true}
		},
		"required": ["action"]
	}`, string(b))
}

func TestNoCredentialOnEveryTool(t *testing.T) {
	c, hits := newCatalog(t, okHandler(`{}`), false)
	calls := map[string]struct {
		action string
		args   map[string]any
	}{
		UserTool:       {"read", nil},
		AccountTool:    {"list", nil},
		WorkspacesTool: {"read", map[string]any{"workspace_id": 1}},
		ProjectTool:    {"list", map[string]any{"workspace_id": 1}},
		TestsTool:      {"create", map[string]any{"test_name": "t", "project_id": 1}},
		ExecutionTool:  {"start", map[string]any{"test_id": 1}},
	}
	for name, call := range calls {
		tool, _ := c.Get(name)
		res := tool.Call(context.Background(), call.action, call.args)
		assert.Equal(t, gateway.NoCredentialMessage, res.Error, name)
	}
	assert.Zero(t, hits.Load())
}

func TestUnknownActionNamesResource(t *testing.T) {
	c, hits := newCatalog(t, okHandler(`{}`), true)
	tool, _ := c.Get(TestsTool)

	res := tool.Call(context.Background(), "delete", map[string]any{"test_id": 1})
	assert.Equal(t, "Action delete not found in tests manager", res.Error)
	assert.Zero(t, hits.Load())
}

func TestMissingArgumentMakesNoCall(t *testing.T) {
	c, hits := newCatalog(t, okHandler(`{}`), true)
	tool, _ := c.Get(ProjectTool)

	res := tool.Call(context.Background(), "list", map[string]any{"limit": 5})
	assert.Equal(t, "Error: missing_argument: workspace_id is required", res.Error)
	assert.Zero(t, hits.Load())
}

func TestTestsListThroughCatalog(t *testing.T) {
	c, _ := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/tests", r.URL.Path)
		assert.Equal(t, "42", q.Get("projectId"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "0", q.Get("skip"))
		okHandler(`{"result":[{"id":1},{"id":2}],"total":5}`)(w, r)
	}, true)
	tool, _ := c.Get(TestsTool)

	// Arguments as a JSON client would send them.
	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"project_id":42,"limit":2}`), &args))
	res := tool.Call(context.Background(), "list", args)
	require.False(t, res.Failed(), res.Error)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 5, *res.Total)
	assert.True(t, *res.HasMore)
}

func TestConfigureThroughCatalog(t *testing.T) {
	var body map[string]any
	c, _ := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tests/5", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		okHandler(`{"result":{"id":5}}`)(w, r)
	}, true)
	tool, _ := c.Get(TestsTool)

	res := tool.Call(context.Background(), "configure", map[string]any{
		"test_id":     "5",
		"concurrency": float64(10),
		"hold-for":    "5m",
		"iterations":  nil,
		"locations":   []any{"us-east4-a=100"},
	})
	require.False(t, res.Failed(), res.Error)
	assert.Equal(t, int64(5), *res.First().(*format.Test).TestID)

	exec := body["overrideExecutions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(10), exec["concurrency"])
	assert.Equal(t, "5m", exec["holdFor"])
	assert.Contains(t, exec, "iterations", "explicit null is sent")
	assert.Nil(t, exec["iterations"])
	assert.NotContains(t, exec, "rampUp", "absent keys are left alone")
	assert.Equal(t, map[string]any{"us-east4-a": float64(10)}, exec["locations"])
}

func TestExecutionStartDefaults(t *testing.T) {
	c, _ := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tests/8/start", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("delayedStart"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"isDebugRun":false}`, string(b))
		okHandler(`{"result":{"id":77}}`)(w, r)
	}, true)
	tool, _ := c.Get(ExecutionTool)

	res := tool.Call(context.Background(), "start", map[string]any{"test_id": 8})
	require.False(t, res.Failed(), res.Error)
	exec := res.First().(*format.Execution)
	assert.True(t, strings.HasSuffix(exec.ExecutionURL, "/app/#/masters/77"))
}

func TestReportArgsValidated(t *testing.T) {
	c, hits := newCatalog(t, okHandler(`{}`), true)
	tool, _ := c.Get(ExecutionTool)

	res := tool.Call(context.Background(), "read_errors", map[string]any{"execution_id": 1, "filter": 7})
	assert.True(t, strings.HasPrefix(res.Error, "Error: invalid_argument: filter must be a string"))
	assert.Zero(t, hits.Load())
}
