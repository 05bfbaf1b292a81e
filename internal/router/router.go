// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package router turns one tool into a multi-operation facade. A Router maps
// action names to Actions for a single resource and is the error boundary of
// the whole call chain: whatever happens below it, Dispatch returns an
// envelope.
package router

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/errors"
	"bzm-mcp/cli/internal/logging"
)

// Action runs one operation with its arguments.
type Action interface {
	Run(ctx context.Context, args Args) (*envelope.Result, error)
}

// ActionFunc adapts a function to Action.
type ActionFunc func(ctx context.Context, args Args) (*envelope.Result, error)

// Run calls f.
func (f ActionFunc) Run(ctx context.Context, args Args) (*envelope.Result, error) {
	return f(ctx, args)
}

type typed[P any] struct {
	decode func(Args) (P, error)
	run    func(context.Context, P) (*envelope.Result, error)
}

func (t typed[P]) Run(ctx context.Context, args Args) (*envelope.Result, error) {
	p, err := t.decode(args)
	if err != nil {
		return nil, err
	}
	return t.run(ctx, p)
}

// Typed builds an Action whose parameters are decoded into P before run is
// called. A decode error stops the action before any platform call.
func Typed[P any](decode func(Args) (P, error), run func(context.Context, P) (*envelope.Result, error)) Action {
	return typed[P]{decode: decode, run: run}
}

// Router dispatches actions for one resource.
type Router struct {
	resource string
	actions  map[string]Action
	log      *zap.Logger
}

// New creates a Router. resource names the manager in error messages.
func New(resource string, actions map[string]Action, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{resource: resource, actions: actions, log: log}
}

// Resource returns the resource name.
func (r *Router) Resource() string { return r.resource }

// Actions returns the supported action names, sorted.
func (r *Router) Actions() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UnknownActionMessage is the envelope error for an unsupported action.
func UnknownActionMessage(action, resource string) string {
	return fmt.Sprintf("Action %s not found in %s manager", action, resource)
}

// Dispatch runs action with the raw argument bag. It never returns nil and
// never panics. Errors and panics below it become an envelope whose error is
// "Error: " followed by the masked diagnostic; items an action returned
// together with its error are kept.
func (r *Router) Dispatch(ctx context.Context, action string, raw map[string]any) (res *envelope.Result) {
	act, ok := r.actions[action]
	if !ok {
		r.log.Warn("unknown action",
			zap.String("kind", string(errors.UnknownAction)),
			zap.String("resource", r.resource),
			zap.String("action", action))
		return envelope.Fail(UnknownActionMessage(action, r.resource))
	}

	log := r.log.With(
		zap.String("call_id", uuid.NewString()),
		zap.String("resource", r.resource),
		zap.String("action", action))
	start := time.Now()
	log.Debug("dispatch")

	defer func() {
		if p := recover(); p != nil {
			err := errors.Newf(errors.ManagerFault, "panic: %v", p)
			log.Error("action panicked", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
			res = faultEnvelope(nil, err)
		}
	}()

	out, err := act.Run(ctx, Args(raw))
	if err != nil {
		if errors.KindOf(err) == "" {
			err = errors.Wrap(errors.ManagerFault, action, err)
		}
		log.Error("action failed",
			zap.String("kind", string(errors.KindOf(err))),
			zap.String("error", logging.Mask(err.Error())),
			zap.Duration("elapsed", time.Since(start)))
		return faultEnvelope(out, err)
	}
	if out == nil {
		out = &envelope.Result{Items: []any{}}
	}
	log.Debug("dispatched",
		zap.Bool("failed", out.Failed()),
		zap.Int("items", len(out.Items)),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

func faultEnvelope(partial *envelope.Result, err error) *envelope.Result {
	res := envelope.Fail("Error: " + logging.Mask(err.Error()))
	if partial != nil {
		res.Items = partial.Items
		res.Total = partial.Total
		res.HasMore = partial.HasMore
	}
	return res
}
