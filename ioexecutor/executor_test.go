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

package ioexecutor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsOffCaller(t *testing.T) {
	exec := NewExecutor(nil, time.Second)
	ctx := context.Background()
	exec.Start(ctx)
	defer exec.Stop(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	var ran bool
	require.NoError(t, exec.Post(func() {
		ran = true
		wg.Done()
	}))

	wg.Wait()
	assert.True(t, ran)
}

func TestExecuteAfterRespectsDelay(t *testing.T) {
	exec := NewExecutor(nil, time.Second)
	ctx := context.Background()
	exec.Start(ctx)
	defer exec.Stop(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	start := time.Now()
	var elapsed time.Duration
	require.NoError(t, exec.ExecuteAfter(50*time.Millisecond, func() {
		elapsed = time.Since(start)
		wg.Done()
	}))

	wg.Wait()
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestPostFailsBeforeStart(t *testing.T) {
	exec := NewExecutor(nil, time.Second)
	err := exec.Post(func() {})
	assert.Error(t, err)
}
