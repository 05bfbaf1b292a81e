// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"strings"

	"bzm-mcp/cli/internal/errors"
)

// PresentError formats an error for the terminal. Secrets are masked and a
// leading kind tag ("transport_failure: ...") is dropped; tool callers see
// kinds, people at a shell do not need them.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var e *errors.E
	if stderrors.As(err, &e) && e.Kind != "" {
		msg = strings.TrimPrefix(msg, string(e.Kind)+": ")
	}
	return fmt.Sprintf("%s: %s", context, Mask(msg))
}
