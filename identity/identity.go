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

// Package identity defines the opaque, totally-ordered identifiers the
// submitter keys its registry, submit queues, and inflight tables by:
// actors, tasks, dependency objects, and the workers that host actors.
package identity

import "github.com/google/uuid"

// ActorID opaquely identifies an actor. It is comparable and totally
// ordered by its underlying string, so it is safe to use as a map key and
// as a sort key.
type ActorID string

// NewActorID wraps a caller-supplied name as an ActorID.
func NewActorID(name string) ActorID { return ActorID(name) }

// String implements fmt.Stringer.
func (a ActorID) String() string { return string(a) }

// Compare orders two ActorIDs lexicographically, returning -1, 0, or 1.
func (a ActorID) Compare(other ActorID) int {
	switch {
	case a < other:
		return -1
	case a > other:
		return 1
	default:
		return 0
	}
}

// TaskID opaquely identifies a single task submission.
type TaskID string

// NewTaskID generates a fresh, random TaskID.
func NewTaskID() TaskID { return TaskID(uuid.NewString()) }

// String implements fmt.Stringer.
func (t TaskID) String() string { return string(t) }

// ObjectID opaquely identifies an object that a task may depend on, or
// that a reference counter may track the liveness of (including an
// actor's own handle).
type ObjectID string

// NewObjectID generates a fresh, random ObjectID.
func NewObjectID() ObjectID { return ObjectID(uuid.NewString()) }

// String implements fmt.Stringer.
func (o ObjectID) String() string { return string(o) }

// WorkerID opaquely identifies the worker process currently hosting an
// actor.
type WorkerID string

// NewWorkerID wraps a caller-supplied name as a WorkerID.
func NewWorkerID(name string) WorkerID { return WorkerID(name) }

// String implements fmt.Stringer.
func (w WorkerID) String() string { return string(w) }

// IsEmpty reports whether the worker identity has not been assigned.
func (w WorkerID) IsEmpty() bool { return w == "" }

// Address identifies the network endpoint and hosting worker of a
// connected actor.
type Address struct {
	Host     string
	Port     int
	WorkerID WorkerID
}

// Equals reports whether two addresses point at the same (host, port).
// WorkerID is not part of the identity check: ConnectActor treats a
// reconnect to the identical endpoint as a no-op regardless of which
// worker identity string accompanies it.
func (a Address) Equals(other Address) bool {
	return a.Host == other.Host && a.Port == other.Port
}

// IsZero reports whether the address has never been set.
func (a Address) IsZero() bool {
	return a.Host == "" && a.Port == 0
}
