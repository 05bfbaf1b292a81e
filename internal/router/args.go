// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"bzm-mcp/cli/internal/errors"
)

// Args is the loosely typed argument bag of a tool call. Numbers may arrive as
// float64, json.Number, Go integers or numeric strings. The getters treat a
// key holding JSON null as absent; Has tells the two apart.
type Args map[string]any

// Has reports whether key was supplied at all, even as null.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Args) get(key string) (any, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func missing(key string) error {
	return errors.Newf(errors.MissingArgument, "%s is required", key)
}

func wrongType(key, want string, v any) error {
	return errors.Newf(errors.InvalidArgument, "%s must be %s, got %T", key, want, v)
}

// Int64 returns a required integer argument.
func (a Args) Int64(key string) (int64, error) {
	v, ok := a.get(key)
	if !ok {
		return 0, missing(key)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, wrongType(key, "an integer", v)
	}
	return n, nil
}

// IntOr returns an optional integer argument, def when absent.
func (a Args) IntOr(key string, def int) (int, error) {
	p, err := a.OptInt(key)
	if err != nil || p == nil {
		return def, err
	}
	return *p, nil
}

// OptInt returns an optional integer argument, nil when absent.
func (a Args) OptInt(key string) (*int, error) {
	v, ok := a.get(key)
	if !ok {
		return nil, nil
	}
	n, ok := toInt64(v)
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return nil, wrongType(key, "an integer", v)
	}
	i := int(n)
	return &i, nil
}

// String returns a required non-empty string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a.get(key)
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "a string", v)
	}
	if strings.TrimSpace(s) == "" {
		return "", missing(key)
	}
	return s, nil
}

// OptString returns an optional string argument, nil when absent.
func (a Args) OptString(key string) (*string, error) {
	v, ok := a.get(key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, wrongType(key, "a string", v)
	}
	return &s, nil
}

// BoolOr returns an optional boolean argument, def when absent. The strings
// "true" and "false" are accepted.
func (a Args) BoolOr(key string, def bool) (bool, error) {
	v, ok := a.get(key)
	if !ok {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed, nil
		}
	}
	return def, wrongType(key, "a boolean", v)
}

// Strings returns a required list of strings.
func (a Args) Strings(key string) ([]string, error) {
	out, err := a.OptStrings(key)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, missing(key)
	}
	return out, nil
}

// OptStrings returns an optional list of strings, nil when absent.
func (a Args) OptStrings(key string) ([]string, error) {
	v, ok := a.get(key)
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.InvalidArgument, "%s[%d] must be a string, got %T", key, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, wrongType(key, "a list of strings", v)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}
