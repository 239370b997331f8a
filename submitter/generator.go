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

// QueueGeneratorForResubmit implements §4.9: it re-emplaces spec (typically
// carrying a bumped SequenceNumber and the same TaskID) and marks that
// task's next successful reply as a resubmission trigger rather than an
// ordinary completion. handlePushTaskReply's generator check
// (consumeGeneratorResubmission) consumes the marker the moment that reply
// arrives.
func (s *Submitter) QueueGeneratorForResubmit(spec TaskSpec) {
	s.mu.Lock()
	queue, ok := s.registry[spec.ActorID]
	if !ok || queue.state == Dead {
		s.mu.Unlock()
		return
	}
	s.generatorsAwaitingResubmit.Add(spec.TaskID)
	queue.curPendingCalls.Inc()
	queue.submitQueue.Emplace(spec.SequenceNumber, spec)
	out := s.sendPendingTasksLocked(spec.ActorID, queue)
	s.mu.Unlock()

	s.runDispatchOutcome(spec.ActorID, out)
	s.resolveDependencies(spec)
}
