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

// pendingPush is everything needed to issue one PushActorTask RPC and its
// task-manager notification after the registry lock has been released.
type pendingPush struct {
	client  RPCClient
	req     PushActorTaskRequest
	skip    bool
	address identity.Address
}

// dispatchOutcome batches the side effects sendPendingTasksLocked wants to
// run after the caller drops the registry lock.
type dispatchOutcome struct {
	pushes    []pendingPush
	fakeFails []TaskSpec
	warn      *excessWarning
}

type excessWarning struct {
	actor identity.ActorID
	size  int
}

func (o *dispatchOutcome) empty() bool {
	return o == nil || (len(o.pushes) == 0 && len(o.fakeFails) == 0 && o.warn == nil)
}

// sendPendingTasksLocked drains ready tasks from queue's submit queue and
// stages the RPC calls and notifications that must run outside the lock.
// The caller must hold the registry mutex.
func (s *Submitter) sendPendingTasksLocked(actor identity.ActorID, queue *ClientQueue) *dispatchOutcome {
	if queue.pendingOutOfScopeDeath {
		return nil
	}

	if queue.rpcClient == nil {
		if queue.state == Restarting && queue.failIfActorUnreachable {
			out := &dispatchOutcome{}
			for {
				spec, _, ok := queue.submitQueue.PopNextTaskToSend()
				if !ok {
					break
				}
				out.fakeFails = append(out.fakeFails, spec)
			}
			return out
		}
		return nil
	}

	out := &dispatchOutcome{}
	for {
		spec, skip, ok := queue.submitQueue.PopNextTaskToSend()
		if !ok {
			break
		}
		queue.inflightTaskCallbacks[inflightKey{taskID: spec.TaskID, attemptNumber: spec.AttemptNumber}] = inflightEntry{spec: spec}

		out.pushes = append(out.pushes, pendingPush{
			client: queue.rpcClient,
			req: PushActorTaskRequest{
				TaskSpec:         spec,
				IntendedWorkerID: queue.address.WorkerID,
				SequenceNumber:   spec.SequenceNumber,
			},
			skip:    skip,
			address: queue.address,
		})
	}

	if len(queue.inflightTaskCallbacks) >= queue.nextWarnThreshold {
		out.warn = &excessWarning{actor: actor, size: len(queue.inflightTaskCallbacks)}
		queue.nextWarnThreshold *= 2
	}

	if out.empty() {
		return nil
	}
	return out
}

// runDispatchOutcome executes everything sendPendingTasksLocked staged.
// Must be called with the registry lock released.
func (s *Submitter) runDispatchOutcome(actor identity.ActorID, out *dispatchOutcome) {
	if out == nil {
		return
	}
	for _, spec := range out.fakeFails {
		s.handlePushTaskReply(actor, spec, restartingTransportError(), PushActorTaskReply{})
	}
	for _, push := range out.pushes {
		spec := push.req.TaskSpec
		s.taskManager.MarkTaskWaitingForExecution(spec.TaskID, push.address)
		push.client.PushActorTask(push.req, push.skip, func(err error, reply PushActorTaskReply) {
			s.onPushActorTaskReply(actor, spec, err, reply)
		})
	}
	if out.warn != nil {
		s.cfg.OnExcessQueueing(out.warn.actor, out.warn.size)
	}
}

// onPushActorTaskReply is the outer RPC callback: it looks up the inflight
// entry under the lock, discards duplicate/late replies, and hands the
// rest to handlePushTaskReply.
func (s *Submitter) onPushActorTaskReply(actor identity.ActorID, spec TaskSpec, transportErr error, reply PushActorTaskReply) {
	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok {
		s.mu.Unlock()
		return
	}
	key := inflightKey{taskID: spec.TaskID, attemptNumber: spec.AttemptNumber}
	if _, present := queue.inflightTaskCallbacks[key]; !present {
		s.mu.Unlock()
		return
	}
	delete(queue.inflightTaskCallbacks, key)
	s.mu.Unlock()

	s.handlePushTaskReply(actor, spec, transportErr, reply)
}

func restartingTransportError() error {
	return errors.NewActorUnavailableError(errors.ErrActorUnavailable)
}

// SendPendingTasks drains and dispatches every currently dispatchable task
// for actor. It is the public entry point used by lifecycle transitions
// and by the dependency-resolution callback.
func (s *Submitter) SendPendingTasks(actor identity.ActorID) {
	s.mu.Lock()
	queue, ok := s.registry[actor]
	if !ok {
		s.mu.Unlock()
		return
	}
	out := s.sendPendingTasksLocked(actor, queue)
	s.mu.Unlock()

	s.runDispatchOutcome(actor, out)
}
