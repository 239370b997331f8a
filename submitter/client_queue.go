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
	"strconv"
	"strings"

	"go.uber.org/atomic"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
	"github.com/tochemey/actorsubmit/internal/collection"
)

// ClientQueue is the submitter's per-actor state bundle: lifecycle state,
// current RPC client (if any), the submit queue, the inflight-reply table,
// and the grace-period table. Every field is guarded by the owning
// Submitter's registry mutex; ClientQueue itself does no locking.
type ClientQueue struct {
	actor identity.ActorID

	state                  ClientQueueState
	owned                  bool
	isRestartable          bool
	pendingOutOfScopeDeath bool
	executeOutOfOrder      bool
	failIfActorUnreachable bool

	maxPendingCalls int
	curPendingCalls *atomic.Int64

	numRestarts                            *atomic.Uint64
	numRestartsDueToLineageReconstructions *atomic.Uint64

	address   identity.Address
	rpcClient RPCClient

	submitQueue SubmitQueue

	inflightTaskCallbacks map[inflightKey]inflightEntry
	waitForDeathInfoTasks *collection.Ring[*waitingTask]

	deathCause    error
	deathCauseCtx *errors.ActorDiedErrorContext
	// preempted latches once the runtime reports that this actor's node was
	// drained. It is read by CheckTimeoutTasks to decide whether a
	// grace-period timeout is an authoritative AUTOSCALER_DRAIN_PREEMPTED
	// death rather than a generic ACTOR_UNAVAILABLE.
	preempted bool

	nextWarnThreshold int
}

// newClientQueue builds a fresh ClientQueue for actor in PENDING_CREATION.
func newClientQueue(actor identity.ActorID, maxPendingCalls int, executeOutOfOrder, failIfActorUnreachable, owned bool, initialWarnThreshold int) *ClientQueue {
	return &ClientQueue{
		actor:                                   actor,
		state:                                   PendingCreation,
		owned:                                   owned,
		isRestartable:                           false,
		executeOutOfOrder:                       executeOutOfOrder,
		failIfActorUnreachable:                  failIfActorUnreachable,
		maxPendingCalls:                         maxPendingCalls,
		curPendingCalls:                         atomic.NewInt64(0),
		numRestarts:                             atomic.NewUint64(0),
		numRestartsDueToLineageReconstructions:  atomic.NewUint64(0),
		submitQueue:                             NewSubmitQueue(executeOutOfOrder),
		inflightTaskCallbacks:                   make(map[inflightKey]inflightEntry),
		waitForDeathInfoTasks:                   collection.NewRing[*waitingTask](),
		nextWarnThreshold:                       initialWarnThreshold,
	}
}

// pendingTasksFull reports whether admission control should reject new
// work for this actor: zero or negative maxPendingCalls means unlimited.
func (q *ClientQueue) pendingTasksFull() bool {
	return q.maxPendingCalls > 0 && q.curPendingCalls.Load() >= int64(q.maxPendingCalls)
}

// detachInflight removes and returns every inflight callback entry,
// leaving the table empty. Callers invoke the returned entries only after
// releasing the registry lock.
func (q *ClientQueue) detachInflight() []inflightEntry {
	if len(q.inflightTaskCallbacks) == 0 {
		return nil
	}
	entries := make([]inflightEntry, 0, len(q.inflightTaskCallbacks))
	for k, v := range q.inflightTaskCallbacks {
		entries = append(entries, v)
		delete(q.inflightTaskCallbacks, k)
	}
	return entries
}

// debugString renders a one-line summary of the queue's state, used by
// Submitter.DebugString.
func (q *ClientQueue) debugString() string {
	var b strings.Builder
	b.WriteString("state=")
	b.WriteString(q.state.String())
	b.WriteString(", owned=")
	b.WriteString(strconv.FormatBool(q.owned))
	b.WriteString(", numRestarts=")
	b.WriteString(strconv.FormatUint(q.numRestarts.Load(), 10))
	b.WriteString(", curPendingCalls/maxPendingCalls=")
	b.WriteString(strconv.FormatInt(q.curPendingCalls.Load(), 10))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(q.maxPendingCalls))
	b.WriteString(", submitQueue=")
	b.WriteString(strconv.Itoa(q.submitQueue.Size()))
	b.WriteString(", inflightCallbacks=")
	b.WriteString(strconv.Itoa(len(q.inflightTaskCallbacks)))
	b.WriteString(", waitForDeathInfo=")
	b.WriteString(strconv.Itoa(q.waitForDeathInfoTasks.Len()))
	return b.String()
}
