// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/errors"
	"bzm-mcp/cli/internal/format"
	"bzm-mcp/cli/internal/gateway"
	"bzm-mcp/cli/internal/upload"
)

// TestManager creates, reads, lists and configures performance tests.
type TestManager struct {
	gw       Doer
	uploader *upload.Uploader
}

// Setting is a load setting that may be left alone, cleared with an explicit
// null, or set to a value.
type Setting[T any] struct {
	Present bool
	// Value is nil when the setting is cleared.
	Value *T
}

// Some returns a setting holding v.
func Some[T any](v T) Setting[T] { return Setting[T]{Present: true, Value: &v} }

// Null returns a setting that clears the platform value.
func Null[T any]() Setting[T] { return Setting[T]{Present: true} }

func (s Setting[T]) put(out map[string]any, key string) {
	switch {
	case !s.Present:
	case s.Value == nil:
		out[key] = nil
	default:
		out[key] = *s.Value
	}
}

// TestConfig holds the execution overrides applied by Configure. Absent
// settings and nil pointers are left out of the request; a null Setting is
// sent as JSON null, which is how iterations are switched off in favour of
// hold-for and back.
type TestConfig struct {
	TestID      int64
	Iterations  Setting[int]
	Concurrency *int
	HoldFor     Setting[string]
	RampUp      Setting[string]
	Steps       Setting[int]
	Executor    *string
	// Locations are "region=percent" pairs, e.g. "us-east4-a=60".
	Locations []string
}

// Create makes a taurus test with a placeholder JMeter script.
func (m *TestManager) Create(ctx context.Context, name string, projectID int64) (*envelope.Result, error) {
	body := map[string]any{
		"name":      name,
		"projectId": projectID,
		"configuration": map[string]any{
			"type":       "taurus",
			"filename":   "DemoTest.jmx",
			"testMode":   "script",
			"scriptType": "jmeter",
		},
	}
	return m.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: TestsEndpoint, Body: body}, format.Tests)
}

// Read returns one test.
func (m *TestManager) Read(ctx context.Context, testID int64) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: path(TestsEndpoint, testID)}, format.Tests)
}

// List returns the tests of a project.
func (m *TestManager) List(ctx context.Context, projectID int64, w gateway.Window) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{
		Path:   TestsEndpoint,
		Query:  url.Values{"projectId": {strconv.FormatInt(projectID, 10)}},
		Window: &w,
	}, format.Tests)
}

// Configure patches the test's first override execution.
func (m *TestManager) Configure(ctx context.Context, cfg TestConfig) (*envelope.Result, error) {
	exec, err := cfg.OverrideExecution()
	if err != nil {
		return nil, err
	}
	body := map[string]any{"overrideExecutions": []any{exec}}
	return m.gw.Do(ctx, gateway.Request{
		Method: http.MethodPatch,
		Path:   path(TestsEndpoint, cfg.TestID),
		Body:   body,
	}, format.Tests)
}

// UploadAssets uploads files to the test and optionally points the test at a
// main script. The outcome is the single item of the envelope. When the
// configuration update fails the outcome is returned together with the error.
func (m *TestManager) UploadAssets(ctx context.Context, testID int64, paths []string, mainScript string) (*envelope.Result, error) {
	out, err := m.uploader.Run(ctx, testID, paths, mainScript)
	if out == nil {
		return nil, err
	}
	res := envelope.Single(out)
	res.Error = out.Error
	return res, err
}

// OverrideExecution renders the override execution body. Locations are split
// into a concurrency map and a percentage map; per-location concurrency is
// percent*concurrency/100 with concurrency defaulting to 1.
func (c TestConfig) OverrideExecution() (map[string]any, error) {
	out := map[string]any{}
	c.Iterations.put(out, "iterations")
	if c.Concurrency != nil {
		out["concurrency"] = *c.Concurrency
	}
	c.HoldFor.put(out, "holdFor")
	c.RampUp.put(out, "rampUp")
	c.Steps.put(out, "steps")
	if c.Executor != nil {
		out["executor"] = *c.Executor
	}
	if c.Locations != nil {
		concurrency := 1
		if c.Concurrency != nil && *c.Concurrency != 0 {
			concurrency = *c.Concurrency
		}
		percents := map[string]int{}
		users := map[string]int{}
		for _, loc := range c.Locations {
			name, pct, ok := strings.Cut(loc, "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				return nil, errors.Newf(errors.InvalidArgument, "location %q must look like region=percent", loc)
			}
			p, err := strconv.Atoi(strings.TrimSpace(pct))
			if err != nil {
				return nil, errors.Wrap(errors.InvalidArgument, "location "+strconv.Quote(loc)+" has a non-integer percent", err)
			}
			percents[name] = p
			users[name] = p * concurrency / 100
		}
		out["locations"] = users
		out["locationsPercents"] = percents
	}
	return out, nil
}
