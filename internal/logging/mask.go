// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the process logger and utilities for secure logging.
// It includes functions for masking sensitive information in log messages and
// formatting errors for display while protecting API key secrets.
//
// The package helps ensure that the API key secret and the Basic-Auth header
// derived from it are not accidentally exposed in logs, tool results or CLI output.
package logging

import "regexp"

var (
	reBasic   = regexp.MustCompile(`(?i)(basic\s+)([A-Za-z0-9+/=]{8,})`)
	reToken   = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reSecret  = regexp.MustCompile(`(?i)("?secret"?\s*[:=]\s*"?)([^\s",;}]+)`)
	reAPIKey  = regexp.MustCompile(`(?i)("?api_?key"?\s*[:=]\s*"?)([^\s",;&}]+)`)
	reURLPass = regexp.MustCompile(`(?i)(://)([^:/@\s]+):([^@/\s]+)(@)`)
)

// Mask replaces sensitive values in the input string with "*".
func Mask(s string) string {
	out := s
	out = reBasic.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reSecret.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reURLPass.ReplaceAllString(out, "$1*:*$4")
	return out
}
