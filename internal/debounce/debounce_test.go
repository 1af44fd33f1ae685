package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBurstCollapsesToOneCall(t *testing.T) {
	d := New(30 * time.Millisecond)
	var calls int32

	for i := 0; i < 5; i++ {
		d.Do(func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSeparatedCallsBothRun(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls int32

	d.Do(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(50 * time.Millisecond)
	d.Do(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var calls int32

	d.Do(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFlushRunsImmediately(t *testing.T) {
	d := New(time.Hour)
	var calls int32

	d.Do(func() { atomic.AddInt32(&calls, 1) })
	d.Flush(func() { atomic.AddInt32(&calls, 1) })

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "flush replaces the pending call")
}
