package store

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsLatestOnly(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var mu sync.Mutex
	var ran []int

	for i := 1; i <= 5; i++ {
		i := i
		d.Schedule(func() {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ran) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, ran)
	assert.False(t, d.Busy())
}

func TestDebouncerWaitsForQuiet(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var count atomic.Int32

	d.Schedule(func() { count.Add(1) })
	time.Sleep(20 * time.Millisecond)
	d.Schedule(func() { count.Add(1) })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
	assert.True(t, d.Busy())

	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var count atomic.Int32
	d.Schedule(func() { count.Add(1) })

	d.Flush()
	assert.Equal(t, int32(1), count.Load())
	assert.False(t, d.Busy())

	d.Flush()
	assert.Equal(t, int32(1), count.Load())
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var count atomic.Int32
	d.Schedule(func() { count.Add(1) })
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
	assert.False(t, d.Busy())
}
