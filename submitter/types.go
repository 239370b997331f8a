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

// Package submitter implements the Actor Task Submitter: the client-side
// subsystem that turns a stream of task submissions into an ordered,
// flow-controlled sequence of remote procedure calls against stateful
// actors, surviving actor restarts and deaths along the way.
package submitter

import (
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// TaskSpec describes a single unit of work destined for an actor. The
// payload is an opaque proto.Message: the submitter never inspects it, it
// only ever forwards it to the RPC client once every dependency has
// resolved.
type TaskSpec struct {
	TaskID         identity.TaskID
	ActorID        identity.ActorID
	SequenceNumber uint64
	AttemptNumber  uint32
	Dependencies   []identity.ObjectID
	Payload        proto.Message
}

// PushActorTaskRequest is what the dispatcher hands to the RPC client.
type PushActorTaskRequest struct {
	TaskSpec         TaskSpec
	IntendedWorkerID identity.WorkerID
	SequenceNumber   uint64
}

// PushActorTaskReply is what the RPC client's callback reports back.
type PushActorTaskReply struct {
	IsApplicationError bool
	IsRetryableError   bool
	ExecutionError     string
	Address            identity.Address
}

// CancelTaskRequest is sent to cancel a task that has already been pushed
// to an actor.
type CancelTaskRequest struct {
	IntendedTaskID identity.TaskID
	CallerWorkerID identity.WorkerID
	ForceKill      bool
	Recursive      bool
}

// CancelTaskReply reports the outcome of a CancelTask RPC.
type CancelTaskReply struct {
	AttemptSucceeded bool
}

// ClientQueueState is one of the lifecycle phases a ClientQueue moves
// through.
type ClientQueueState int

const (
	// PendingCreation is the state of a newly registered actor that has
	// not yet been connected.
	PendingCreation ClientQueueState = iota
	// Alive means the actor has an rpc client and can receive tasks.
	Alive
	// Restarting means the actor has disconnected but may still come back.
	Restarting
	// Dead means the actor will never receive another task, except
	// possibly lineage-reconstruction work if it is owned and restartable.
	Dead
)

// String renders the state for logs and DebugString.
func (s ClientQueueState) String() string {
	switch s {
	case Alive:
		return "ALIVE"
	case Restarting:
		return "RESTARTING"
	case Dead:
		return "DEAD"
	default:
		return "PENDING_CREATION"
	}
}

// waitingTask is an entry in a ClientQueue's wait_for_death_info_tasks
// table: a task whose RPC failed but whose authoritative fate (actor
// dead vs. merely unreachable) has not yet arrived.
type waitingTask struct {
	spec           TaskSpec
	deadline       time.Time
	provisionalErr error
}

// inflightKey identifies an outstanding PushActorTask call awaiting reply.
type inflightKey struct {
	taskID        identity.TaskID
	attemptNumber uint32
}

// inflightEntry is what sendPendingTasksLocked installs and
// onPushActorTaskReply consumes before handing it to handlePushTaskReply.
type inflightEntry struct {
	spec TaskSpec
}

// classifyActorDiedContext turns an ActorDiedErrorContext into the wrapped
// error surfaced to the task manager.
func classifyActorDiedContext(ctx errors.ActorDiedErrorContext) error {
	return errors.NewActorDiedError(ctx)
}
