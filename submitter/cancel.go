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

import "github.com/tochemey/actorsubmit/errors"

// CancelTask implements §4.8. force_kill is unconditionally false for
// actor tasks; cancellation is asynchronous and best-effort once a task
// has already been sent to the wire.
func (s *Submitter) CancelTask(spec TaskSpec, recursive bool) {
	taskID := spec.TaskID

	s.taskManager.MarkTaskCanceled(taskID)
	if !s.taskManager.IsTaskPending(taskID) {
		return
	}

	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	if !ok || queue.state == Dead {
		s.mu.Unlock()
		return
	}
	s.generatorsAwaitingResubmit.Remove(taskID)

	var (
		foundQueued    bool
		depsUnresolved bool
		rpcClient      RPCClient
	)
	if queue.submitQueue.Contains(spec.SequenceNumber) {
		depsUnresolved = !queue.submitQueue.DependenciesResolved(spec.SequenceNumber)
		queue.submitQueue.MarkTaskCanceled(spec.SequenceNumber)
		foundQueued = true
	} else {
		rpcClient = queue.rpcClient
	}
	s.mu.Unlock()

	if foundQueued {
		if depsUnresolved {
			s.resolver.CancelDependencyResolution(taskID)
		}
		s.taskManager.FailPendingTask(taskID, ErrorTypeTaskCancelled, errors.ErrTaskCancelled)
		return
	}

	s.sendCancelRPC(spec, recursive, rpcClient)
}

func (s *Submitter) sendCancelRPC(spec TaskSpec, recursive bool, rpcClient RPCClient) {
	if rpcClient == nil {
		_ = s.executor.ExecuteAfter(s.cfg.CancelRetryWhenUnconnected, func() {
			s.retryCancelTask(spec, recursive)
		})
		return
	}

	req := CancelTaskRequest{
		IntendedTaskID: spec.TaskID,
		CallerWorkerID: s.selfWorkerID,
		ForceKill:      false,
		Recursive:      recursive,
	}
	rpcClient.CancelTask(req, func(err error, reply CancelTaskReply) {
		if !s.taskManager.IsTaskPending(spec.TaskID) {
			return
		}
		if err != nil || !reply.AttemptSucceeded {
			_ = s.executor.ExecuteAfter(s.cfg.CancelRetryWhenFailed, func() {
				s.retryCancelTask(spec, recursive)
			})
		}
	})
}

// retryCancelTask re-resolves the actor's current RPC client (it may have
// reconnected since the last attempt) and retries delivery of the cancel.
func (s *Submitter) retryCancelTask(spec TaskSpec, recursive bool) {
	if !s.taskManager.IsTaskPending(spec.TaskID) {
		return
	}

	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	if !ok || queue.state == Dead {
		s.mu.Unlock()
		return
	}
	rpcClient := queue.rpcClient
	s.mu.Unlock()

	s.sendCancelRPC(spec, recursive, rpcClient)
}
