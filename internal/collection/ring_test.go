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

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingFIFOOrder(t *testing.T) {
	r := NewRing[int]()
	assert.True(t, r.IsEmpty())

	for i := 0; i < 40; i++ {
		r.PushBack(i)
	}
	assert.Equal(t, 40, r.Len())

	front, ok := r.Front()
	require.True(t, ok)
	assert.Equal(t, 0, front)

	for i := 0; i < 40; i++ {
		v, ok := r.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, r.IsEmpty())
	_, ok = r.PopFront()
	assert.False(t, ok)
}

func TestRingDrain(t *testing.T) {
	r := NewRing[string]()
	r.PushBack("a")
	r.PushBack("b")
	r.PushBack("c")

	got := r.Drain()
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.True(t, r.IsEmpty())
}

func TestRingGrowsAndShrinks(t *testing.T) {
	r := NewRing[int]()
	for i := 0; i < 1000; i++ {
		r.PushBack(i)
	}
	for i := 0; i < 990; i++ {
		v, ok := r.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 10, r.Len())
}
