// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/errors"
	"bzm-mcp/cli/internal/gateway"
)

// Report types.
const (
	ReportSummary      = "summary"
	ReportErrors       = "errors"
	ReportRequestStats = "request_stats"
)

// DefaultReportLimit is the page size for errors and request stats reports.
const DefaultReportLimit = 10

// Page selects rows of a tabular report. Filter is an optional JMESPath
// expression evaluated against the full row list before paging.
type Page struct {
	Limit  int
	Offset int
	Filter string
}

// PageInfo describes the returned slice of a report.
type PageInfo struct {
	Offset        int `json:"offset"`
	Limit         int `json:"limit"`
	ReturnedCount int `json:"returned_count"`
}

// Report is one report for an execution.
type Report struct {
	ExecutionID int64     `json:"execution_id"`
	ReportType  string    `json:"report_type"`
	RawData     any       `json:"raw_data"`
	Total       *int      `json:"total,omitempty"`
	HasMore     *bool     `json:"has_more,omitempty"`
	PageInfo    *PageInfo `json:"page_info,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// AllReports is the composite returned by ReportManager.All.
type AllReports struct {
	Summary      *Report `json:"summary"`
	Errors       *Report `json:"errors"`
	RequestStats *Report `json:"request_stats"`
}

// ReportManager fetches execution reports. Every public call first checks that
// the execution is readable and returns that check's error envelope as is.
type ReportManager struct {
	gw         Doer
	executions *ExecutionManager
}

var reportPaths = map[string]string{
	ReportSummary:      "reports/default/summary",
	ReportErrors:       "reports/errorsreport/data",
	ReportRequestStats: "reports/aggregatereport/data",
}

// Summary returns the summary report.
func (m *ReportManager) Summary(ctx context.Context, executionID int64) (*envelope.Result, error) {
	return m.checked(ctx, executionID, func() (*Report, *envelope.Result, error) {
		return m.summary(ctx, executionID)
	})
}

// Errors returns a page of the errors report.
func (m *ReportManager) Errors(ctx context.Context, executionID int64, p Page) (*envelope.Result, error) {
	return m.checked(ctx, executionID, func() (*Report, *envelope.Result, error) {
		return m.paged(ctx, executionID, ReportErrors, p)
	})
}

// RequestStats returns a page of the aggregate request statistics report.
func (m *ReportManager) RequestStats(ctx context.Context, executionID int64, p Page) (*envelope.Result, error) {
	return m.checked(ctx, executionID, func() (*Report, *envelope.Result, error) {
		return m.paged(ctx, executionID, ReportRequestStats, p)
	})
}

// All returns summary, errors and request stats after a single pre-check.
// A report the platform refuses carries its error inside the composite.
func (m *ReportManager) All(ctx context.Context, executionID int64) (*envelope.Result, error) {
	if failed, err := m.precheck(ctx, executionID); failed != nil || err != nil {
		return failed, err
	}

	all := &AllReports{}
	fetch := []struct {
		dst **Report
		run func() (*Report, *envelope.Result, error)
	}{
		{&all.Summary, func() (*Report, *envelope.Result, error) { return m.summary(ctx, executionID) }},
		{&all.Errors, func() (*Report, *envelope.Result, error) {
			return m.paged(ctx, executionID, ReportErrors, Page{})
		}},
		{&all.RequestStats, func() (*Report, *envelope.Result, error) {
			return m.paged(ctx, executionID, ReportRequestStats, Page{})
		}},
	}
	for _, f := range fetch {
		rep, _, err := f.run()
		if err != nil {
			return nil, err
		}
		*f.dst = rep
	}
	return envelope.Single(all), nil
}

func (m *ReportManager) checked(ctx context.Context, executionID int64, run func() (*Report, *envelope.Result, error)) (*envelope.Result, error) {
	if failed, err := m.precheck(ctx, executionID); failed != nil || err != nil {
		return failed, err
	}
	rep, failed, err := run()
	if err != nil {
		return nil, err
	}
	if failed != nil {
		return failed, nil
	}
	return envelope.Single(rep), nil
}

// precheck returns a non-nil envelope when the execution cannot be read.
func (m *ReportManager) precheck(ctx context.Context, executionID int64) (*envelope.Result, error) {
	res, err := m.executions.Read(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return res, nil
	}
	return nil, nil
}

func (m *ReportManager) fetch(ctx context.Context, executionID int64, reportType string) (*envelope.Result, error) {
	return m.gw.Do(ctx, gateway.Request{Path: path(ExecutionsEndpoint, executionID, reportPaths[reportType])}, nil)
}

func (m *ReportManager) summary(ctx context.Context, executionID int64) (*Report, *envelope.Result, error) {
	res, err := m.fetch(ctx, executionID, ReportSummary)
	if err != nil {
		return nil, nil, err
	}
	if res.Failed() {
		return &Report{ExecutionID: executionID, ReportType: ReportSummary, RawData: []any{}, Error: res.Error}, res, nil
	}
	return &Report{ExecutionID: executionID, ReportType: ReportSummary, RawData: res.Items}, nil, nil
}

func (m *ReportManager) paged(ctx context.Context, executionID int64, reportType string, p Page) (*Report, *envelope.Result, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultReportLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	res, err := m.fetch(ctx, executionID, reportType)
	if err != nil {
		return nil, nil, err
	}
	if res.Failed() {
		return &Report{
			ExecutionID: executionID,
			ReportType:  reportType,
			RawData:     []any{},
			Total:       envelope.Int(0),
			HasMore:     envelope.Bool(false),
			Error:       res.Error,
		}, res, nil
	}

	rows := res.Items
	if p.Filter != "" {
		rows, err = filterRows(rows, p.Filter)
		if err != nil {
			return nil, nil, err
		}
	}

	total := len(rows)
	start := min(p.Offset, total)
	end := min(p.Offset+p.Limit, total)
	page := rows[start:end]
	return &Report{
		ExecutionID: executionID,
		ReportType:  reportType,
		RawData:     page,
		Total:       envelope.Int(total),
		HasMore:     envelope.Bool(p.Offset+p.Limit < total),
		PageInfo:    &PageInfo{Offset: p.Offset, Limit: p.Limit, ReturnedCount: len(page)},
	}, nil, nil
}

// filterRows applies a JMESPath expression to the row list. Rows are
// re-decoded first so numbers compare as numbers.
func filterRows(rows []any, expression string) ([]any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidArgument, fmt.Sprintf("invalid filter expression %q", expression), err)
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}

	out, err := jp.Search(data)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidArgument, fmt.Sprintf("filter %q failed", expression), err)
	}
	switch v := out.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	default:
		return nil, errors.Newf(errors.InvalidArgument, "filter %q must produce a list, got %T", expression, out)
	}
}
