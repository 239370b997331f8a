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
	"fmt"

	"go.uber.org/multierr"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// ConnectActor implements the connect half of §4.4: it moves actor's queue
// into ALIVE at address and flushes whatever the submit queue already has
// ready. A reconnect to the identical endpoint while already ALIVE is a
// no-op; a connect notification that arrives after the actor is known DEAD,
// or whose numRestarts is older than the queue's, is stale and ignored — the
// actor has already restarted again since this message was sent. Swapping to
// a new client evicts the old one from the pool and fails whatever was still
// inflight against it as a transport error, the same way a DisconnectActor
// would.
func (s *Submitter) ConnectActor(actor identity.ActorID, address identity.Address, numRestarts uint64) {
	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok || queue.state == Dead || numRestarts < queue.numRestarts.Load() {
		s.mu.Unlock()
		return
	}
	if queue.rpcClient != nil && queue.address.Equals(address) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	client, err := s.clientPool.GetOrConnect(address)
	if err != nil {
		s.logger.Errorf("actor %s: failed to connect to %s:%d: %v", actor, address.Host, address.Port, err)
		return
	}

	s.mu.Lock()
	queue, ok = s.registry[actor]
	if !ok || queue.state == Dead || numRestarts < queue.numRestarts.Load() {
		s.mu.Unlock()
		return
	}
	queue.numRestarts.Store(numRestarts)

	previousWorker := queue.address.WorkerID
	inflight := queue.detachInflight()

	queue.state = Alive
	queue.address = address
	queue.rpcClient = client
	out := s.sendPendingTasksLocked(actor, queue)
	s.mu.Unlock()

	if !previousWorker.IsEmpty() {
		s.clientPool.Disconnect(previousWorker)
	}
	for _, entry := range inflight {
		s.handlePushTaskReply(actor, entry.spec, restartingTransportError(), PushActorTaskReply{})
	}

	s.runDispatchOutcome(actor, out)
}

// DisconnectActor implements the disconnect half of §4.4. A transient
// disconnect (dead=false) parks inflight calls as ordinary transport
// failures, reusing the same reply path a failed RPC would take, and waits
// to learn the actor's fate; numRestarts must be positive and, per the
// stale-event property, a numRestarts at or below the queue's current value
// is ignored — it is about a restart the queue has already moved past. A
// confirmed death ignores numRestarts entirely and drains every queued,
// inflight, and grace-period-parked task, failing all of them with the
// actor's death cause. Both branches evict the old client from the pool.
func (s *Submitter) DisconnectActor(actor identity.ActorID, numRestarts uint64, dead bool, deathCtx *errors.ActorDiedErrorContext, isRestartable bool) {
	if !dead {
		s.mu.Lock()
		queue, ok := s.registry[actor]
		if !ok || queue.state == Dead || numRestarts <= queue.numRestarts.Load() {
			s.mu.Unlock()
			return
		}
		queue.numRestarts.Store(numRestarts)
		queue.state = Restarting
		previousWorker := queue.address.WorkerID
		queue.rpcClient = nil
		queue.address = identity.Address{}
		inflight := queue.detachInflight()
		s.mu.Unlock()

		if !previousWorker.IsEmpty() {
			s.clientPool.Disconnect(previousWorker)
		}
		for _, entry := range inflight {
			s.handlePushTaskReply(actor, entry.spec, restartingTransportError(), PushActorTaskReply{})
		}
		return
	}

	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok || queue.state == Dead {
		s.mu.Unlock()
		return
	}

	ctx := errors.ActorDiedErrorContext{}
	if deathCtx != nil {
		ctx = *deathCtx
	}
	cause := classifyActorDiedContext(ctx)

	previousWorker := queue.address.WorkerID
	queue.state = Dead
	queue.rpcClient = nil
	queue.deathCause = cause
	queue.deathCauseCtx = &ctx
	queue.isRestartable = isRestartable
	queue.curPendingCalls.Store(0)

	inflight := queue.detachInflight()
	queuedTaskIDs := queue.submitQueue.ClearAllTasks()
	parked := queue.waitForDeathInfoTasks.Drain()
	s.mu.Unlock()

	if !previousWorker.IsEmpty() {
		s.clientPool.Disconnect(previousWorker)
	}

	var drainSummary error
	if n := len(inflight); n > 0 {
		drainSummary = multierr.Append(drainSummary, fmt.Errorf("%d inflight task(s) failed as ACTOR_DIED", n))
	}
	if n := len(queuedTaskIDs); n > 0 {
		drainSummary = multierr.Append(drainSummary, fmt.Errorf("%d queued task(s) failed as ACTOR_DIED", n))
	}
	if n := len(parked); n > 0 {
		drainSummary = multierr.Append(drainSummary, fmt.Errorf("%d grace-period task(s) failed as ACTOR_DIED", n))
	}
	if drainSummary != nil {
		s.logger.Warn(fmt.Sprintf("actor %s died: %v", actor, drainSummary))
	}

	for _, entry := range inflight {
		s.resolver.CancelDependencyResolution(entry.spec.TaskID)
		s.taskManager.FailOrRetryPendingTask(entry.spec.TaskID, ErrorTypeActorDied, cause, true, ctx.FailImmediately)
	}
	for _, taskID := range queuedTaskIDs {
		s.resolver.CancelDependencyResolution(taskID)
		s.taskManager.FailOrRetryPendingTask(taskID, ErrorTypeActorDied, cause, true, ctx.FailImmediately)
	}
	for _, wt := range parked {
		s.taskManager.FailOrRetryPendingTask(wt.spec.TaskID, ErrorTypeActorDied, cause, true, ctx.FailImmediately)
	}
}

// RestartActorForLineageReconstruction asks the actor creator to bring back
// an owned, restartable DEAD actor so it can reconstruct its lineage from
// storage. The DEAD-to-RESTARTING transition happens synchronously, before
// the async call goes out, and is itself the idempotency guard: a
// SubmitTask that arrives while a restart is already in flight sees
// state != DEAD and simply enqueues behind it instead of triggering a
// second restart.
func (s *Submitter) RestartActorForLineageReconstruction(actor identity.ActorID) {
	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok || queue.state != Dead || !queue.owned || !queue.isRestartable {
		s.mu.Unlock()
		return
	}
	queue.state = Restarting
	queue.numRestartsDueToLineageReconstructions.Inc()
	s.mu.Unlock()

	s.actorCreator.AsyncRestartActorForLineageReconstruction(actor, func(err error) {
		s.onLineageReconstructionComplete(actor, err)
	})
}

// onLineageReconstructionComplete is
// AsyncRestartActorForLineageReconstruction's callback. Success leaves the
// queue in RESTARTING to await the actor directory's ConnectActor, which
// flushes whatever piled up while the restart was in flight. Failure is
// logged; the queue stays put for a future restart attempt rather than
// draining, since the tasks behind it are exactly the lineage-reconstruction
// work this call exists to serve.
func (s *Submitter) onLineageReconstructionComplete(actor identity.ActorID, err error) {
	if err != nil {
		s.logger.Errorf("actor %s: lineage reconstruction restart failed: %v", actor, err)
	}
}

// MarkPreempted implements the other half of §4.7: it latches actor's queue
// once the runtime learns its node is being drained, so a subsequent
// grace-period timeout reports AUTOSCALER_DRAIN_PREEMPTED instead of a
// generic unavailability error.
func (s *Submitter) MarkPreempted(actor identity.ActorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if queue, ok := s.registry[actor]; ok {
		queue.preempted = true
	}
}
