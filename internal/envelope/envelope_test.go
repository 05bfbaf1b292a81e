// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalOmitsAbsentFields(t *testing.T) {
	tests := []struct {
		name string
		in   *Result
		want string
	}{
		{
			name: "error only",
			in:   Fail("Invalid credentials"),
			want: `{"error":"Invalid credentials"}`,
		},
		{
			name: "empty list is kept",
			in:   &Result{Items: []any{}, Total: Int(0), HasMore: Bool(false)},
			want: `{"result":[],"total":0,"has_more":false}`,
		},
		{
			name: "unknown total",
			in:   &Result{Items: []any{map[string]any{"id": 1}}, HasMore: Bool(false)},
			want: `{"result":[{"id":1}],"has_more":false}`,
		},
		{
			name: "single",
			in:   Single("x"),
			want: `{"result":["x"],"total":1,"has_more":false}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestFailedAndFirst(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.Failed())
	assert.Nil(t, nilResult.First())

	assert.True(t, Fail("boom").Failed())
	assert.Nil(t, Fail("boom").First())
	assert.Equal(t, "x", Single("x").First())
}
