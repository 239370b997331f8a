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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorsubmit/identity"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.GracePeriod)
	assert.Equal(t, 1000, cfg.InitialWarnThreshold)
	assert.NotNil(t, cfg.Logger)
	assert.NotNil(t, cfg.OnExcessQueueing)
}

func TestNewWithOptions(t *testing.T) {
	var captured int
	cfg, err := New(
		WithGracePeriod(5*time.Second),
		WithInitialWarnThreshold(10),
		WithCancelRetryWhenUnconnected(100*time.Millisecond),
		WithCancelRetryWhenFailed(200*time.Millisecond),
		WithOnExcessQueueing(func(actor identity.ActorID, queueLength int) {
			captured = queueLength
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.GracePeriod)
	assert.Equal(t, 10, cfg.InitialWarnThreshold)

	cfg.OnExcessQueueing(identity.NewActorID("a1"), 42)
	assert.Equal(t, 42, captured)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	_, err := New(WithGracePeriod(-time.Second), WithInitialWarnThreshold(0))
	assert.Error(t, err)
}
