// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tools

import (
	"context"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/platform"
	"bzm-mcp/cli/internal/router"
)

type createTestParams struct {
	Name      string
	ProjectID int64
}

type uploadParams struct {
	TestID     int64
	Paths      []string
	MainScript string
}

// setting reads a nullable load setting: a missing key leaves it alone, null clears it.
func setting[T any](a router.Args, key string, get func(string) (*T, error)) (platform.Setting[T], error) {
	if !a.Has(key) {
		return platform.Setting[T]{}, nil
	}
	v, err := get(key)
	if err != nil {
		return platform.Setting[T]{}, err
	}
	return platform.Setting[T]{Present: true, Value: v}, nil
}

func decodeTestConfig(a router.Args) (platform.TestConfig, error) {
	var (
		cfg platform.TestConfig
		err error
	)
	if cfg.TestID, err = a.Int64("test_id"); err != nil {
		return cfg, err
	}
	if cfg.Iterations, err = setting(a, "iterations", a.OptInt); err != nil {
		return cfg, err
	}
	if cfg.Concurrency, err = a.OptInt("concurrency"); err != nil {
		return cfg, err
	}
	if cfg.HoldFor, err = setting(a, "hold-for", a.OptString); err != nil {
		return cfg, err
	}
	if cfg.RampUp, err = setting(a, "ramp-up", a.OptString); err != nil {
		return cfg, err
	}
	if cfg.Steps, err = setting(a, "steps", a.OptInt); err != nil {
		return cfg, err
	}
	if cfg.Executor, err = a.OptString("executor"); err != nil {
		return cfg, err
	}
	cfg.Locations, err = a.OptStrings("locations")
	return cfg, err
}

func testActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"create": router.Typed(func(a router.Args) (createTestParams, error) {
			var (
				p   createTestParams
				err error
			)
			if p.Name, err = a.String("test_name"); err != nil {
				return p, err
			}
			p.ProjectID, err = a.Int64("project_id")
			return p, err
		}, func(ctx context.Context, p createTestParams) (*envelope.Result, error) {
			return c.Test.Create(ctx, p.Name, p.ProjectID)
		}),
		"read": router.Typed(idDecoder("test_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Test.Read(ctx, p.ID)
		}),
		"list": router.Typed(listDecoder("project_id"), func(ctx context.Context, p listParams) (*envelope.Result, error) {
			return c.Test.List(ctx, p.ParentID, p.Window)
		}),
		"configure":     router.Typed(decodeTestConfig, c.Test.Configure),
		"upload_assets": router.Typed(func(a router.Args) (uploadParams, error) {
			var (
				p   uploadParams
				err error
			)
			if p.TestID, err = a.Int64("test_id"); err != nil {
				return p, err
			}
			if p.Paths, err = a.Strings("file_paths"); err != nil {
				return p, err
			}
			script, err := a.OptString("main_script")
			if script != nil {
				p.MainScript = *script
			}
			return p, err
		}, func(ctx context.Context, p uploadParams) (*envelope.Result, error) {
			return c.Test.UploadAssets(ctx, p.TestID, p.Paths, p.MainScript)
		}),
	}
}

type startParams struct {
	TestID       int64
	DelayedStart bool
	Debug        bool
}

type reportParams struct {
	ExecutionID int64
	Page        platform.Page
}

func decodeReport(a router.Args) (reportParams, error) {
	var (
		p   reportParams
		err error
	)
	if p.ExecutionID, err = a.Int64("execution_id"); err != nil {
		return p, err
	}
	if p.Page.Limit, err = a.IntOr("limit", platform.DefaultReportLimit); err != nil {
		return p, err
	}
	if p.Page.Offset, err = a.IntOr("offset", 0); err != nil {
		return p, err
	}
	filter, err := a.OptString("filter")
	if filter != nil {
		p.Page.Filter = *filter
	}
	return p, err
}

func executionActions(c *platform.Client) map[string]router.Action {
	return map[string]router.Action{
		"start": router.Typed(func(a router.Args) (startParams, error) {
			var (
				p   startParams
				err error
			)
			if p.TestID, err = a.Int64("test_id"); err != nil {
				return p, err
			}
			if p.DelayedStart, err = a.BoolOr("delayed_start", true); err != nil {
				return p, err
			}
			p.Debug, err = a.BoolOr("debug", false)
			return p, err
		}, func(ctx context.Context, p startParams) (*envelope.Result, error) {
			return c.Execution.Start(ctx, p.TestID, p.DelayedStart, p.Debug)
		}),
		"read": router.Typed(idDecoder("execution_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Execution.Read(ctx, p.ID)
		}),
		"list": router.Typed(listDecoder("test_id"), func(ctx context.Context, p listParams) (*envelope.Result, error) {
			return c.Execution.List(ctx, p.ParentID, p.Window)
		}),
		"read_summary": router.Typed(idDecoder("execution_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Report.Summary(ctx, p.ID)
		}),
		"read_errors": router.Typed(decodeReport, func(ctx context.Context, p reportParams) (*envelope.Result, error) {
			return c.Report.Errors(ctx, p.ExecutionID, p.Page)
		}),
		"read_request_stats": router.Typed(decodeReport, func(ctx context.Context, p reportParams) (*envelope.Result, error) {
			return c.Report.RequestStats(ctx, p.ExecutionID, p.Page)
		}),
		"read_all_reports": router.Typed(idDecoder("execution_id"), func(ctx context.Context, p idParams) (*envelope.Result, error) {
			return c.Report.All(ctx, p.ID)
		}),
	}
}
