// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package format converts raw BlazeMeter records into the stable records
// returned to tool callers: platform field names are renamed, absent fields get
// defaults and epoch timestamps become RFC 3339 UTC strings.
//
// Every formatter has the signature func([]any) []any. Items that are not JSON
// objects are passed through unchanged.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Accounts formats /accounts records.
func Accounts(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		return &Account{
			AccountID:   Int64Ptr(m["id"]),
			AccountName: stringOr(m, "name", "Unknown"),
			Description: stringOr(m, "description", ""),
			AIConsent:   boolPtr(m["aiConsent"]),
			Created:     Timestamp(m["created"]),
			Updated:     Timestamp(m["updated"]),
		}
	})
}

// Workspaces formats /workspaces list records.
func Workspaces(raw []any) []any {
	return each(raw, func(m map[string]any) any { return workspace(m) })
}

// WorkspacesDetailed formats a /workspaces/:id record.
func WorkspacesDetailed(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		return &WorkspaceDetailed{
			Workspace:  *workspace(m),
			Owner:      m["owner"],
			Allowance:  m["allowance"],
			UsersCount: Int64Ptr(m["membersCount"]),
			Locations:  m["locations"],
		}
	})
}

func workspace(m map[string]any) *Workspace {
	return &Workspace{
		WorkspaceID:   Int64Ptr(m["id"]),
		WorkspaceName: stringPtr(m["name"]),
		AccountID:     Int64Ptr(m["accountId"]),
		Created:       Timestamp(m["created"]),
		Updated:       Timestamp(m["updated"]),
		Enabled:       boolPtr(m["enabled"]),
	}
}

// Projects formats /projects records.
func Projects(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		workspaceID, _ := Int64(m["workspaceId"])
		testsCount, _ := Int64(m["testsCount"])
		return &Project{
			ProjectID:   Int64Ptr(m["id"]),
			ProjectName: stringOr(m, "name", "Unknown"),
			Description: stringOr(m, "description", ""),
			Created:     Timestamp(m["created"]),
			Updated:     Timestamp(m["updated"]),
			WorkspaceID: workspaceID,
			TestsCount:  int(testsCount),
		}
	})
}

// Tests formats /tests records.
func Tests(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		cfg, _ := m["configuration"].(map[string]any)
		if cfg == nil {
			cfg = map[string]any{}
		}
		return &Test{
			TestID:        Int64Ptr(m["id"]),
			TestName:      stringOr(m, "name", "Unknown"),
			Description:   stringOr(m, "description", ""),
			Created:       Timestamp(m["created"]),
			Updated:       Timestamp(m["updated"]),
			ProjectID:     Int64Ptr(m["projectId"]),
			Status:        stringOr(m, "status", "Unknown"),
			Type:          stringOr(m, "type", "Unknown"),
			Configuration: cfg,
		}
	})
}

// Users formats the /user record.
func Users(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		tz, _ := Int64(m["timezone"])
		return &User{
			UserID:           Int64Ptr(m["id"]),
			DisplayName:      stringPtr(m["displayName"]),
			FirstName:        stringPtr(m["firstName"]),
			LastName:         stringPtr(m["lastName"]),
			Email:            stringPtr(m["email"]),
			Access:           Timestamp(m["access"]),
			Login:            Timestamp(m["login"]),
			Created:          Timestamp(m["created"]),
			Updated:          Timestamp(m["updated"]),
			TimeZone:         tz,
			Enabled:          boolPtr(m["enabled"]),
			DefaultProjectID: Int64Ptr(m["defaultProjectId"]),
		}
	})
}

// Executions returns a formatter for execution list records; appURL is the web
// application root used to build links.
func Executions(appURL string) func([]any) []any {
	return func(raw []any) []any {
		return each(raw, func(m map[string]any) any {
			e := execution(appURL, m)
			return &e
		})
	}
}

// ExecutionsDetailed returns a formatter for /masters/:id records.
func ExecutionsDetailed(appURL string) func([]any) []any {
	return func(raw []any) []any {
		return each(raw, func(m map[string]any) any {
			return &ExecutionDetailed{
				Execution:       execution(appURL, m),
				Created:         Timestamp(m["created"]),
				Updated:         Timestamp(m["updated"]),
				Ended:           Timestamp(m["ended"]),
				ExecutionStatus: stringOr(m, "reportStatus", "unset"),
			}
		})
	}
}

func execution(appURL string, m map[string]any) Execution {
	id := Int64Ptr(m["id"])
	return Execution{
		ExecutionID:   id,
		ExecutionName: stringPtr(m["name"]),
		ExecutionURL:  ExecutionURL(appURL, m["id"]),
	}
}

// ExecutionURL links to an execution in the web application.
func ExecutionURL(appURL string, id any) string {
	if n, ok := Int64(id); ok {
		id = n
	}
	return fmt.Sprintf("%s/app/#/masters/%v", strings.TrimRight(appURL, "/"), id)
}

// ExecutionStatuses formats /masters/:id/status records.
func ExecutionStatuses(raw []any) []any {
	return each(raw, func(m map[string]any) any {
		st, _ := m["statuses"].(map[string]any)
		pct := func(key string) int {
			n, _ := Int64(st[key])
			return int(n)
		}
		return &ExecutionStatus{
			ProgressPercent: pct("ended"),
			ExecutionStep:   stringOr(m, "executionStep", "Unknown"),
			ExecutionStatuses: ExecutionStatusStep{
				PendingPercent:     pct("pending"),
				BootingPercent:     pct("booting"),
				DownloadingPercent: pct("downloading"),
				ReadyPercent:       pct("ready"),
				EndedPercent:       pct("ended"),
			},
		}
	})
}

func each(raw []any, fn func(map[string]any) any) []any {
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			out = append(out, r)
			continue
		}
		out = append(out, fn(m))
	}
	return out
}

// Timestamp converts epoch seconds to an RFC 3339 UTC string. Absent or
// non-numeric values yield nil.
func Timestamp(v any) *string {
	sec, ok := Int64(v)
	if !ok {
		return nil
	}
	s := time.Unix(sec, 0).UTC().Format(time.RFC3339)
	return &s
}

// Int64 converts a decoded JSON number (or numeric string) to int64.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case float32:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// Int64Ptr is Int64 returning nil when v is absent or not numeric.
func Int64Ptr(v any) *int64 {
	n, ok := Int64(v)
	if !ok {
		return nil
	}
	return &n
}

func stringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func boolPtr(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// stringOr returns m[key] when it is a string, def when the key is absent.
// A present non-string value is rendered with fmt.
func stringOr(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
