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
	"time"

	"github.com/tochemey/actorsubmit/errors"
	"github.com/tochemey/actorsubmit/identity"
)

// timeoutFailure is one task whose grace period has elapsed, staged for a
// FailPendingTask call outside the registry lock.
type timeoutFailure struct {
	taskID  identity.TaskID
	errType ErrorType
	err     error
}

// CheckTimeoutTasks implements §4.7: any task parked in wait_for_death_info
// whose deadline has elapsed is failed now. Every such task is tagged with
// its actor's current preempted flag, read fresh at sweep time rather than
// at park time: a preempted actor gets an authoritative ACTOR_DIED with
// AUTOSCALER_DRAIN_PREEMPTED, since the node going away explains the
// silence; anything else keeps the provisional unavailability error it was
// parked with. waitForDeathInfoTasks entries are pushed in deadline order,
// so the front of the ring is always the next one due.
func (s *Submitter) CheckTimeoutTasks(now time.Time) {
	var failures []timeoutFailure

	s.mu.Lock()
	for _, queue := range s.registry {
		preempted := queue.preempted
		for {
			wt, ok := queue.waitForDeathInfoTasks.Front()
			if !ok || wt.deadline.After(now) {
				break
			}
			queue.waitForDeathInfoTasks.PopFront()

			errType := ErrorTypeActorUnavailable
			err := wt.provisionalErr
			if preempted {
				errType = ErrorTypeActorDied
				err = classifyActorDiedContext(errors.ActorDiedErrorContext{
					Reason:          errors.ActorDiedNodeDrainPreempted,
					FailImmediately: true,
					Detail:          "the node was inferred to be dead due to draining.",
				})
			}
			failures = append(failures, timeoutFailure{
				taskID:  wt.spec.TaskID,
				errType: errType,
				err:     err,
			})
		}
	}
	s.mu.Unlock()

	for _, f := range failures {
		s.taskManager.FailPendingTask(f.taskID, f.errType, f.err)
	}
}
