// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bzm-mcp/cli/internal/credential"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/platform"
	"bzm-mcp/cli/internal/tools"
)

func TestClientConfigSnippet(t *testing.T) {
	var cfg map[string]struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	require.NoError(t, json.Unmarshal([]byte("{"+clientConfig()+"}"), &cfg))
	entry, ok := cfg["BlazeMeter MCP"]
	require.True(t, ok)
	assert.NotEmpty(t, entry.Command)
	assert.Equal(t, []string{"--mcp"}, entry.Args)
}

func TestSpinnerClearsLine(t *testing.T) {
	var buf bytes.Buffer
	stop := startInlineSpinner(&buf, "Working", spinnerFrames, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	stop()
	stop()
	out := buf.String()
	assert.Contains(t, out, "Working")
	assert.True(t, strings.HasSuffix(out, "\r"), "line is cleared on stop")
}

func withApp(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cred, err := credential.New("id", "secret")
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	gw := gateway.New(gateway.Options{BaseURL: srv.URL, Credential: cred, HTTPClient: srv.Client(), Logger: log})
	client := platform.New(gw, platform.Options{AppURL: "https://app.example"})

	prev := current
	current = &app{log: log, cred: cred, gw: gw, client: client, catalog: tools.NewCatalog(client, log)}
	t.Cleanup(func() { current = prev })
}

func runCall(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	callCmd.SetOut(&out)
	callCmd.SetContext(context.Background())
	t.Cleanup(func() {
		callCmd.SetOut(nil)
		callArgs = ""
	})
	err := callCmd.RunE(callCmd, args)
	return out.String(), err
}

func TestCallPrintsEnvelope(t *testing.T) {
	var got string
	withApp(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"result":[{"id":5,"name":"Smoke"}],"total":1}`)
	})
	callArgs = `{"project_id": 12, "limit": 5}`

	out, err := runCall(t, "tests", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "/tests?")
	assert.Contains(t, got, "projectId=12")

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.EqualValues(t, 1, res["total"])
	assert.Equal(t, false, res["has_more"])
}

func TestCallErrors(t *testing.T) {
	withApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	_, err := runCall(t, "nothing", "read")
	assert.EqualError(t, err, `unknown tool "nothing"`)

	out, err := runCall(t, "blazemeter_tests", "delete")
	assert.EqualError(t, err, "blazemeter_tests delete failed")
	assert.Contains(t, out, "Action delete not found in tests manager")

	callArgs = `{not json`
	_, err = runCall(t, "tests", "read")
	assert.ErrorContains(t, err, "parse --args")
}
