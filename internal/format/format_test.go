// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// decode mimics the gateway: numbers stay json.Number.
func decode(t *testing.T, s string) []any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func i64(n int64) *int64 { return &n }
func str(s string) *string { return &s }
func yes() *bool {
	b := true
	return &b
}

const (
	epoch    = 1700000000
	epochISO = "2023-11-14T22:13:20Z"
)

func TestAccounts(t *testing.T) {
	raw := decode(t, `[
		{"id": 11, "name": "Acme", "description": "main", "aiConsent": true, "created": 1700000000, "updated": 1700000000},
		{"id": 12}
	]`)
	want := []any{
		&Account{AccountID: i64(11), AccountName: "Acme", Description: "main", AIConsent: yes(), Created: str(epochISO), Updated: str(epochISO)},
		&Account{AccountID: i64(12), AccountName: "Unknown", Description: ""},
	}
	if diff := cmp.Diff(want, Accounts(raw)); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkspaces(t *testing.T) {
	raw := decode(t, `[{"id": 5, "name": "Team", "accountId": 11, "created": 1700000000, "updated": 1700000000,
		"enabled": true, "owner": {"id": 1}, "allowance": {"amount": 10}, "membersCount": 3, "locations": ["us-east-1"]}]`)

	base := Workspace{
		WorkspaceID:   i64(5),
		WorkspaceName: str("Team"),
		AccountID:     i64(11),
		Created:       str(epochISO),
		Updated:       str(epochISO),
		Enabled:       yes(),
	}
	if diff := cmp.Diff([]any{&base}, Workspaces(raw)); diff != "" {
		t.Errorf("Workspaces() mismatch (-want +got):\n%s", diff)
	}

	want := []any{&WorkspaceDetailed{
		Workspace:  base,
		Owner:      map[string]any{"id": json.Number("1")},
		Allowance:  map[string]any{"amount": json.Number("10")},
		UsersCount: i64(3),
		Locations:  []any{"us-east-1"},
	}}
	if diff := cmp.Diff(want, WorkspacesDetailed(raw)); diff != "" {
		t.Errorf("WorkspacesDetailed() mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectsDefaults(t *testing.T) {
	raw := decode(t, `[{"id": 42, "name": "Web"}]`)
	want := []any{&Project{ProjectID: i64(42), ProjectName: "Web", WorkspaceID: 0, TestsCount: 0}}
	if diff := cmp.Diff(want, Projects(raw)); diff != "" {
		t.Errorf("Projects() mismatch (-want +got):\n%s", diff)
	}
}

func TestTests(t *testing.T) {
	raw := decode(t, `[
		{"id": 7, "name": "Login flow", "projectId": 42, "created": 1700000000, "configuration": {"type": "taurus"}},
		{"id": 8, "configuration": null}
	]`)
	want := []any{
		&Test{TestID: i64(7), TestName: "Login flow", ProjectID: i64(42), Created: str(epochISO),
			Status: "Unknown", Type: "Unknown", Configuration: map[string]any{"type": "taurus"}},
		&Test{TestID: i64(8), TestName: "Unknown", Status: "Unknown", Type: "Unknown", Configuration: map[string]any{}},
	}
	if diff := cmp.Diff(want, Tests(raw)); diff != "" {
		t.Errorf("Tests() mismatch (-want +got):\n%s", diff)
	}
}

func TestUsers(t *testing.T) {
	raw := decode(t, `[{"id": 1, "displayName": "Ada L", "firstName": "Ada", "lastName": "L", "email": "ada@example.com",
		"access": 1700000000, "enabled": true, "defaultProjectId": 42}]`)
	want := []any{&User{
		UserID:           i64(1),
		DisplayName:      str("Ada L"),
		FirstName:        str("Ada"),
		LastName:         str("L"),
		Email:            str("ada@example.com"),
		Access:           str(epochISO),
		Enabled:          yes(),
		DefaultProjectID: i64(42),
	}}
	if diff := cmp.Diff(want, Users(raw)); diff != "" {
		t.Errorf("Users() mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutions(t *testing.T) {
	raw := decode(t, `[{"id": 900, "name": "run 1", "created": 1700000000, "ended": null}]`)

	list := Executions("https://a.blazemeter.com/")(raw)
	wantList := []any{&Execution{ExecutionID: i64(900), ExecutionName: str("run 1"), ExecutionURL: "https://a.blazemeter.com/app/#/masters/900"}}
	if diff := cmp.Diff(wantList, list); diff != "" {
		t.Errorf("Executions() mismatch (-want +got):\n%s", diff)
	}

	detailed := ExecutionsDetailed("https://a.blazemeter.com")(raw)
	wantDetailed := []any{&ExecutionDetailed{
		Execution:       Execution{ExecutionID: i64(900), ExecutionName: str("run 1"), ExecutionURL: "https://a.blazemeter.com/app/#/masters/900"},
		Created:         str(epochISO),
		ExecutionStatus: "unset",
	}}
	if diff := cmp.Diff(wantDetailed, detailed); diff != "" {
		t.Errorf("ExecutionsDetailed() mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutionStatuses(t *testing.T) {
	raw := decode(t, `[{"executionStep": "Running", "statuses": {"pending": 0, "booting": 100, "downloading": 100, "ready": 50, "ended": 20}}, {}]`)
	want := []any{
		&ExecutionStatus{
			ProgressPercent: 20,
			ExecutionStep:   "Running",
			ExecutionStatuses: ExecutionStatusStep{
				BootingPercent: 100, DownloadingPercent: 100, ReadyPercent: 50, EndedPercent: 20,
			},
		},
		&ExecutionStatus{ExecutionStep: "Unknown"},
	}
	if diff := cmp.Diff(want, ExecutionStatuses(raw)); diff != "" {
		t.Errorf("ExecutionStatuses() mismatch (-want +got):\n%s", diff)
	}
}

func TestNonObjectItemsPassThrough(t *testing.T) {
	raw := []any{"plain", json.Number("3")}
	if diff := cmp.Diff(raw, Accounts(raw)); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *string
	}{
		{"json number", json.Number("1700000000"), str(epochISO)},
		{"float", float64(epoch), str(epochISO)},
		{"zero", 0, str("1970-01-01T00:00:00Z")},
		{"nil", nil, nil},
		{"text", "yesterday", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Timestamp(tt.in)); diff != "" {
				t.Errorf("Timestamp(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
