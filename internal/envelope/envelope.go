// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package envelope defines the normalized outcome every platform operation returns.
//
// A Result carries a list of records, an optional total, an optional has-more
// flag and an optional error. When Error is set callers must not treat Items as
// meaningful. Absent fields are omitted from the JSON form; an empty but present
// item list is kept as [].
package envelope

import "encoding/json"

// Result is the envelope returned by the gateway, managers and routers.
type Result struct {
	Items   []any  `json:"result"`
	Total   *int   `json:"total,omitempty"`
	HasMore *bool  `json:"has_more,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Fail returns an error envelope.
func Fail(msg string) *Result {
	return &Result{Error: msg}
}

// Single returns a success envelope holding one record with total 1.
func Single(item any) *Result {
	return &Result{Items: []any{item}, Total: Int(1), HasMore: Bool(false)}
}

// Failed reports whether the envelope carries an error.
func (r *Result) Failed() bool {
	return r != nil && r.Error != ""
}

// First returns the first item, or nil.
func (r *Result) First() any {
	if r == nil || len(r.Items) == 0 {
		return nil
	}
	return r.Items[0]
}

// MarshalJSON omits result when Items is nil but keeps an empty list.
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Items   *[]any `json:"result,omitempty"`
		Total   *int   `json:"total,omitempty"`
		HasMore *bool  `json:"has_more,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	w := wire{Total: r.Total, HasMore: r.HasMore, Error: r.Error}
	if r.Items != nil {
		w.Items = &r.Items
	}
	return json.Marshal(w)
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
