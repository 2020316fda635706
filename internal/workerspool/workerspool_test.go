// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package workerspool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool(t *testing.T) {
	pool := New().SetMaxParallelism(3)
	var running, maxRunning, count atomic.Int32
	for range 50 {
		pool.WaitToStart(func() {
			now := running.Add(1)
			for {
				prev := maxRunning.Load()
				if now <= prev || maxRunning.CompareAndSwap(prev, now) {
					break
				}
			}
			count.Add(1)
			running.Add(-1)
		})
	}
	pool.Wait()
	assert.Equal(t, int32(50), count.Load())
	assert.LessOrEqual(t, maxRunning.Load(), int32(3))

	// No parallelism: tasks run inline.
	pool = New().SetMaxParallelism(0)
	count.Store(0)
	pool.WaitToStart(func() { count.Add(1) })
	assert.Equal(t, int32(1), count.Load())
	pool.Wait()

	// Unlimited.
	pool = New().SetMaxParallelism(-1)
	count.Store(0)
	for range 20 {
		pool.WaitToStart(func() { count.Add(1) })
	}
	pool.Wait()
	assert.Equal(t, int32(20), count.Load())
}
