package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounceCoalescesCalls(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		d.Debounce(30*time.Millisecond, func() {
			calls.Add(1)
			last.Store(int32(i))
		})
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebounceStop(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32

	assert.False(t, d.Stop())
	d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	assert.True(t, d.Stop())
	assert.False(t, d.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
