// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors holds the error taxonomy surfaced by the task submitter to
// the task manager. Every error that crosses the submitter's public boundary
// is one of the sentinels below, or wraps one of them via Unwrap so callers
// can use errors.Is/errors.As against the taxonomy.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrActorNotRegistered is returned when an operation targets an actor
	// that has no ClientQueue in the registry.
	ErrActorNotRegistered = errors.New("actor has no client queue registered")

	// ErrDependencyResolutionFailed indicates a task's dependencies could not
	// be resolved before dispatch.
	ErrDependencyResolutionFailed = errors.New("dependency resolution failed")

	// ErrActorCreationFailed indicates the actor creator could not bring the
	// actor to life (including lineage reconstruction restarts).
	ErrActorCreationFailed = errors.New("actor creation failed")

	// ErrActorDied indicates the actor has transitioned to DEAD and is not
	// restartable, or is restartable but not owned by this worker.
	ErrActorDied = errors.New("actor died")

	// ErrActorUnavailable indicates a transport-level failure while the actor
	// is not yet known to be dead.
	ErrActorUnavailable = errors.New("actor unavailable")

	// ErrTaskCancelled indicates the task was canceled before or during
	// execution.
	ErrTaskCancelled = errors.New("task cancelled")

	// ErrTaskExecutionException indicates the actor reported a retryable
	// application-level execution error.
	ErrTaskExecutionException = errors.New("task execution exception")

	// ErrSchedulerNotStarted is returned when the I/O executor has not been
	// started.
	ErrSchedulerNotStarted = errors.New("io executor has not been started")

	// ErrInvalidConfig indicates a Config was built with out-of-range values.
	ErrInvalidConfig = errors.New("invalid submitter configuration")

	// ErrSubmitterClosed names the condition of a Submitter that has already
	// been closed. No Submitter method returns it: calls made after Close
	// are not checked against it.
	ErrSubmitterClosed = errors.New("submitter is closed")
)

// NewErrDependencyResolutionFailed wraps the resolver's own error with
// ErrDependencyResolutionFailed so the taxonomy sentinel survives alongside
// the resolver's detail.
func NewErrDependencyResolutionFailed(err error) error {
	return errors.Join(ErrDependencyResolutionFailed, err)
}

// NewErrActorCreationFailed wraps an actor-creator error with
// ErrActorCreationFailed.
func NewErrActorCreationFailed(err error) error {
	return errors.Join(ErrActorCreationFailed, err)
}

// ActorDiedReason enumerates why the actor transitioned to DEAD, mirroring
// the actor_died_error_context of the host spec.
type ActorDiedReason int

const (
	// ActorDiedUnknown is the zero value: the actor died for a reason the
	// submitter was not told about.
	ActorDiedUnknown ActorDiedReason = iota
	// ActorDiedOOM indicates the actor's process was killed for running out
	// of memory.
	ActorDiedOOM
	// ActorDiedNodeDrainPreempted indicates the actor's node was drained by
	// the autoscaler while the actor's fate was still ambiguous.
	ActorDiedNodeDrainPreempted
	// ActorDiedIntentional indicates the actor was deliberately torn down
	// (e.g. explicit kill), as opposed to a crash.
	ActorDiedIntentional
)

// String renders the reason for logs and DebugString.
func (r ActorDiedReason) String() string {
	switch r {
	case ActorDiedOOM:
		return "OOM"
	case ActorDiedNodeDrainPreempted:
		return "AUTOSCALER_DRAIN_PREEMPTED"
	case ActorDiedIntentional:
		return "INTENTIONAL"
	default:
		return "UNKNOWN"
	}
}

// ActorDiedErrorContext carries the authoritative detail behind an
// ErrActorDied, including whether retries must be short-circuited.
type ActorDiedErrorContext struct {
	Reason          ActorDiedReason
	FailImmediately bool
	Detail          string
}

// ActorDiedError is the typed error wrapping ErrActorDied with its context.
type ActorDiedError struct {
	Context ActorDiedErrorContext
}

var _ error = (*ActorDiedError)(nil)

// NewActorDiedError builds an ActorDiedError from the given context.
func NewActorDiedError(ctx ActorDiedErrorContext) *ActorDiedError {
	return &ActorDiedError{Context: ctx}
}

// Error implements the standard error interface.
func (e *ActorDiedError) Error() string {
	if e.Context.Detail != "" {
		return fmt.Sprintf("actor died (reason=%s): %s", e.Context.Reason, e.Context.Detail)
	}
	return fmt.Sprintf("actor died (reason=%s)", e.Context.Reason)
}

// Unwrap lets errors.Is(err, ErrActorDied) succeed.
func (e *ActorDiedError) Unwrap() error {
	return ErrActorDied
}

// ActorUnavailableError wraps ErrActorUnavailable with the transport status
// that triggered it.
type ActorUnavailableError struct {
	Status error
}

var _ error = (*ActorUnavailableError)(nil)

// NewActorUnavailableError builds an ActorUnavailableError from a transport
// status/error.
func NewActorUnavailableError(status error) *ActorUnavailableError {
	return &ActorUnavailableError{Status: status}
}

// Error implements the standard error interface.
func (e *ActorUnavailableError) Error() string {
	if e.Status == nil {
		return "actor unavailable"
	}
	return fmt.Sprintf("actor unavailable: %v", e.Status)
}

// Unwrap lets errors.Is(err, ErrActorUnavailable) succeed.
func (e *ActorUnavailableError) Unwrap() error {
	return ErrActorUnavailable
}

// TaskExecutionError wraps ErrTaskExecutionException with the execution
// error string reported by the actor.
type TaskExecutionError struct {
	ExecutionError string
}

var _ error = (*TaskExecutionError)(nil)

// NewTaskExecutionError builds a TaskExecutionError from the actor's reply.
func NewTaskExecutionError(executionError string) *TaskExecutionError {
	return &TaskExecutionError{ExecutionError: executionError}
}

// Error implements the standard error interface.
func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task execution exception: %s", e.ExecutionError)
}

// Unwrap lets errors.Is(err, ErrTaskExecutionException) succeed.
func (e *TaskExecutionError) Unwrap() error {
	return ErrTaskExecutionException
}
