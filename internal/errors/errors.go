// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so the gateway and the action router can decide how a
// failure is surfaced (envelope error slot, hard failure, or CLI message).
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NoCredential indicates no usable credential at call time; nothing was sent.
	NoCredential Kind = "no_credential"
	// InvalidCredential indicates the platform rejected the credential (401/403).
	InvalidCredential Kind = "invalid_credential"
	// TransportFailure indicates a non-2xx status other than 401/403, or a network fault.
	TransportFailure Kind = "transport_failure"
	// UnknownAction indicates a dispatch for an action outside the resource's set.
	UnknownAction Kind = "unknown_action"
	// ManagerFault indicates a failure raised while running a manager operation.
	ManagerFault Kind = "manager_fault"
	// MissingArgument indicates a required tool argument was not supplied.
	MissingArgument Kind = "missing_argument"
	// InvalidArgument indicates a tool argument had the wrong type or value.
	InvalidArgument Kind = "invalid_argument"
	// CredentialError indicates a credential source could not produce a credential.
	CredentialError Kind = "credential_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf builds an E with a formatted message.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first E found in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
