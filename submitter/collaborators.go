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

package submitter

import (
	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// DependencyResolutionStatus is what the dependency resolver reports back
// through ResolveDependencies' callback.
type DependencyResolutionStatus struct {
	Ok  bool
	Err error
}

// DependencyResolver resolves a task's object dependencies before the task
// is eligible for dispatch. It is an external collaborator: the submitter
// never calls it while holding the registry mutex.
type DependencyResolver interface {
	// ResolveDependencies kicks off resolution for spec's dependencies and
	// invokes cb exactly once, on the I/O executor, with the outcome.
	ResolveDependencies(spec TaskSpec, cb func(DependencyResolutionStatus))
	// CancelDependencyResolution cancels an in-flight resolution for
	// taskID. It is a no-op if resolution already completed.
	CancelDependencyResolution(taskID identity.TaskID)
}

// ErrorType enumerates the taxonomy a TaskManager failure is tagged with.
type ErrorType int

const (
	// ErrorTypeDependencyResolutionFailed tags a DEPENDENCY_RESOLUTION_FAILED outcome.
	ErrorTypeDependencyResolutionFailed ErrorType = iota
	// ErrorTypeActorCreationFailed tags an ACTOR_CREATION_FAILED outcome.
	ErrorTypeActorCreationFailed
	// ErrorTypeActorDied tags an ACTOR_DIED outcome.
	ErrorTypeActorDied
	// ErrorTypeActorUnavailable tags an ACTOR_UNAVAILABLE outcome.
	ErrorTypeActorUnavailable
	// ErrorTypeTaskCancelled tags a TASK_CANCELLED outcome.
	ErrorTypeTaskCancelled
	// ErrorTypeTaskExecutionException tags a TASK_EXECUTION_EXCEPTION outcome.
	ErrorTypeTaskExecutionException
)

// TaskManager is the task bookkeeping collaborator: it owns task status,
// retries, and final outcomes. The submitter reports into it but never
// stores task state of its own beyond what is needed to dispatch.
type TaskManager interface {
	MarkDependenciesResolved(taskID identity.TaskID)
	MarkTaskCanceled(taskID identity.TaskID)
	MarkTaskWaitingForExecution(taskID identity.TaskID, addr identity.Address)
	CompletePendingTask(taskID identity.TaskID, reply PushActorTaskReply, addr identity.Address, isApplicationError bool)
	FailPendingTask(taskID identity.TaskID, errType ErrorType, err error)
	// FailOrRetryPendingTask asks whether the task manager will retry the
	// task itself. markTaskObjectFailed is set when the actor is already
	// known dead. It returns true if the task manager chose to retry.
	FailOrRetryPendingTask(taskID identity.TaskID, errType ErrorType, err error, markTaskObjectFailed, failImmediately bool) bool
	IsTaskPending(taskID identity.TaskID) bool
	GetTaskSpec(taskID identity.TaskID) (TaskSpec, bool)
	MarkGeneratorFailedAndResubmit(taskID identity.TaskID)
}

// ActorCreationOutcome is what AsyncCreateActor reports back for one
// actor-creation task. Unlike an ordinary task reply, a creation task never
// passes through the submit queue, so this carries everything
// onActorCreationTaskReply needs to complete or fail the creation task
// directly.
type ActorCreationOutcome struct {
	// Err is nil on success. When IsApplicationError is set, Err is the
	// actor's own startup failure and the creation task still completes
	// (carrying ExecutionError as its result); otherwise Err is a
	// scheduling/RPC failure and the creation task fails outright.
	Err                error
	IsApplicationError bool
	ExecutionError     string
	// Canceled is true when actor scheduling was canceled rather than
	// merely failing; DeathCause is populated when the cancellation carried
	// the actor's death cause.
	Canceled   bool
	DeathCause *errors.ActorDiedErrorContext
	Address    identity.Address
}

// ActorCreator issues creation and restart RPCs to the global actor
// directory.
type ActorCreator interface {
	// AsyncCreateActor issues the creation RPC for spec's actor and invokes
	// cb exactly once with the outcome. The creation task's completion is
	// reported from this callback, never through the actor's submit queue.
	AsyncCreateActor(spec TaskSpec, cb func(ActorCreationOutcome))
	AsyncRestartActorForLineageReconstruction(actor identity.ActorID, cb func(err error))
	AsyncReportActorOutOfScope(actor identity.ActorID)
}

// RPCClient is the per-worker transport handle produced by a ClientPool.
type RPCClient interface {
	PushActorTask(req PushActorTaskRequest, skipQueue bool, cb func(err error, reply PushActorTaskReply))
	CancelTask(req CancelTaskRequest, cb func(err error, reply CancelTaskReply))
	Addr() identity.Address
}

// ClientPool produces and caches per-worker RPC clients.
type ClientPool interface {
	GetOrConnect(addr identity.Address) (RPCClient, error)
	Disconnect(worker identity.WorkerID)
}

// ReferenceCounter signals when an actor handle has gone out of scope.
type ReferenceCounter interface {
	// AddObjectOutOfScopeOrFreedCallback subscribes cb against objectID. It
	// returns false if the object was already out of scope, in which case
	// the caller is responsible for invoking cb inline.
	AddObjectOutOfScopeOrFreedCallback(objectID identity.ObjectID, cb func()) bool
}
