// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package format

// Account is a normalized account record.
type Account struct {
	AccountID   *int64  `json:"account_id"`
	AccountName string  `json:"account_name"`
	Description string  `json:"description"`
	AIConsent   *bool   `json:"ai_consent"`
	Created     *string `json:"created"`
	Updated     *string `json:"updated"`
}

// Workspace is a normalized workspace record as returned by list calls.
type Workspace struct {
	WorkspaceID   *int64  `json:"workspace_id"`
	WorkspaceName *string `json:"workspace_name"`
	AccountID     *int64  `json:"account_id"`
	Created       *string `json:"created"`
	Updated       *string `json:"updated"`
	Enabled       *bool   `json:"enabled"`
}

// WorkspaceDetailed adds ownership, allowance and locations for read calls.
type WorkspaceDetailed struct {
	Workspace
	Owner      any    `json:"owner"`
	Allowance  any    `json:"allowance"`
	UsersCount *int64 `json:"users_count"`
	Locations  any    `json:"locations"`
}

// Project is a normalized project record.
type Project struct {
	ProjectID   *int64  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Description string  `json:"description"`
	Created     *string `json:"created"`
	Updated     *string `json:"updated"`
	WorkspaceID int64   `json:"workspace_id"`
	TestsCount  int     `json:"tests_count"`
}

// Test is a normalized performance test record.
type Test struct {
	TestID        *int64         `json:"test_id"`
	TestName      string         `json:"test_name"`
	Description   string         `json:"description"`
	Created       *string        `json:"created"`
	Updated       *string        `json:"updated"`
	ProjectID     *int64         `json:"project_id"`
	Status        string         `json:"status"`
	Type          string         `json:"type"`
	Configuration map[string]any `json:"configuration"`
}

// User is the normalized current-user record.
type User struct {
	UserID           *int64  `json:"user_id"`
	DisplayName      *string `json:"display_name"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Email            *string `json:"email"`
	Access           *string `json:"access"`
	Login            *string `json:"login"`
	Created          *string `json:"created"`
	Updated          *string `json:"updated"`
	TimeZone         int64   `json:"time_zone"`
	Enabled          *bool   `json:"enabled"`
	DefaultProjectID *int64  `json:"default_project_id"`
}

// Execution is a test run (master) as returned by list and start calls.
type Execution struct {
	ExecutionID   *int64  `json:"execution_id"`
	ExecutionName *string `json:"execution_name"`
	ExecutionURL  string  `json:"execution_url"`
}

// ExecutionDetailed is the read form of an execution; the status breakdown is
// merged in by the execution manager.
type ExecutionDetailed struct {
	Execution
	Created                 *string          `json:"created"`
	Updated                 *string          `json:"updated"`
	Ended                   *string          `json:"ended"`
	ExecutionStatus         string           `json:"execution_status"`
	ExecutionStatusDetailed *ExecutionStatus `json:"execution_status_detailed"`
}

// ExecutionStatus is the progress breakdown from /masters/:id/status.
type ExecutionStatus struct {
	ProgressPercent   int                 `json:"progress_percent"`
	ExecutionStep     string              `json:"execution_step"`
	ExecutionStatuses ExecutionStatusStep `json:"execution_statuses"`
}

// ExecutionStatusStep holds per-phase completion percentages.
type ExecutionStatusStep struct {
	PendingPercent     int `json:"pending_percent"`
	BootingPercent     int `json:"booting_percent"`
	DownloadingPercent int `json:"downloading_percent"`
	ReadyPercent       int `json:"ready_percent"`
	EndedPercent       int `json:"ended_percent"`
}
