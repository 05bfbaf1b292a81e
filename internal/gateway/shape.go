// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"bzm-mcp/cli/internal/envelope"
)

// shape decodes a 2xx body into an envelope. Numbers are kept as json.Number
// so identifiers survive unchanged.
func shape(body []byte, window *Window, format Formatter) (*envelope.Result, error) {
	var payload map[string]any
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var top any
		if err := dec.Decode(&top); err != nil {
			return nil, err
		}
		if m, ok := top.(map[string]any); ok {
			payload = m
		} else {
			payload = map[string]any{"result": top}
		}
	}

	items, defaultTotal := coerceResult(payload["result"])
	if format != nil {
		items = format(items)
	}
	if items == nil {
		items = []any{}
	}

	res := &envelope.Result{Items: items}
	if t, ok := toInt(payload["total"]); ok {
		res.Total = envelope.Int(t)
	} else if defaultTotal != nil {
		res.Total = defaultTotal
	}
	res.HasMore = envelope.Bool(hasMore(res.Total, window, payload))
	res.Error = platformError(payload["error"])
	return res, nil
}

// coerceResult turns the platform's result into a list. A single object
// becomes a one-element list with a default total of 1.
func coerceResult(v any) ([]any, *int) {
	switch r := v.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return r, nil
	default:
		return []any{r}, envelope.Int(1)
	}
}

// hasMore applies total - (offset + limit) > 0 using the window that was sent,
// falling back to the skip and limit the platform echoed back.
func hasMore(total *int, window *Window, payload map[string]any) bool {
	if total == nil {
		return false
	}
	if window != nil {
		return *total-(window.Offset+window.Limit) > 0
	}
	limit, okLimit := toInt(payload["limit"])
	if !okLimit {
		return false
	}
	skip, _ := toInt(payload["skip"])
	return *total-(skip+limit) > 0
}

func platformError(v any) string {
	switch e := v.(type) {
	case nil:
		return ""
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
		if len(e) == 0 {
			return ""
		}
		b, _ := json.Marshal(e)
		return string(b)
	default:
		return fmt.Sprint(e)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return int(f), true
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
