// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
)

// ExecutionManager starts, reads and lists test executions (masters).
type ExecutionManager struct {
	gw     Doer
	appURL string
}

// Start launches a configured test.
func (m *ExecutionManager) Start(ctx context.Context, testID int64, delayedStart, debug bool) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   path(TestsEndpoint, testID, "start"),
		Query:  url.Values{"delayedStart": {strconv.FormatBool(delayedStart)}},
		Body:   map[string]any{"isDebugRun": debug},
	}, format.Executions(m.appURL))
}

// Read returns the execution with its status breakdown merged into
// execution_status_detailed. The first failing call wins.
func (m *ExecutionManager) Read(ctx context.Context, executionID int64) (*envelope.Result, error) {
	res, err := m.gw.Do(ctx, gateway.Request{Path: path(ExecutionsEndpoint, executionID)}, format.ExecutionsDetailed(m.appURL))
	if err != nil || res.Failed() {
		return res, err
	}
	exec, ok := res.First().(*format.ExecutionDetailed)
	if !ok {
		return envelope.Fail(fmt.Sprintf("Execution %d not found", executionID)), nil
	}

	status, err := m.gw.Do(ctx, gateway.Request{
		Path:  path(ExecutionsEndpoint, executionID, "status"),
		Query: url.Values{"level": {"200"}, "events": {"false"}},
	}, format.ExecutionStatuses)
	if err != nil || status.Failed() {
		return status, err
	}
	if st, ok := status.First().(*format.ExecutionStatus); ok {
		exec.ExecutionStatusDetailed = st
	}
	return envelope.Single(exec), nil
}

// List returns the executions of a test.
func (m *ExecutionManager) List(ctx context.Context, testID int64, w gateway.Window) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{
		Path:   ExecutionsEndpoint,
		Query:  url.Values{"testId": {strconv.FormatInt(testID, 10)}},
		Window: &w,
	}, format.Executions(m.appURL))
}
