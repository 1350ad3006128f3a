package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleRunsOnce(t *testing.T) {
	d := New()
	var calls int32

	d.Schedule(10*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRescheduleReplacesPending(t *testing.T) {
	d := New()
	var first, second int32

	d.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	d.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&second, 1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first), "replaced callback must never fire")
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))
}

func TestCancelDropsPending(t *testing.T) {
	d := New()
	var calls int32

	d.Schedule(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestScheduleAfterCancel(t *testing.T) {
	d := New()
	var calls int32

	d.Schedule(10*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	d.Cancel()
	d.Schedule(10*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
