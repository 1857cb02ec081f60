package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	got  []string
	hits chan string
}

func newRecorder() *recorder {
	return &recorder{hits: make(chan string, 16)}
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.hits <- v
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestDebouncer(t *testing.T) {
	t.Run("Delivers Only The Last Value Of A Burst", func(t *testing.T) {
		rec := newRecorder()
		d := New(50*time.Millisecond, rec.record)
		defer d.Stop()

		d.Trigger("g")
		d.Trigger("gr")
		d.Trigger("gro")

		select {
		case v := <-rec.hits:
			assert.Equal(t, "gro", v)
		case <-time.After(2 * time.Second):
			t.Fatal("debounced callback never fired")
		}

		time.Sleep(120 * time.Millisecond)
		assert.Equal(t, []string{"gro"}, rec.values())
		assert.False(t, d.Pending())
	})

	t.Run("Waits For The Quiet Window", func(t *testing.T) {
		var calls atomic.Int32
		d := New(200*time.Millisecond, func(string) { calls.Add(1) })
		defer d.Stop()

		d.Trigger("a")
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
		assert.True(t, d.Pending())
	})

	t.Run("Cancel Drops Pending Value", func(t *testing.T) {
		var calls atomic.Int32
		d := New(30*time.Millisecond, func(string) { calls.Add(1) })
		defer d.Stop()

		d.Trigger("a")
		d.Cancel()
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("Flush Delivers Immediately", func(t *testing.T) {
		rec := newRecorder()
		d := New(time.Hour, rec.record)
		defer d.Stop()

		assert.False(t, d.Flush(), "nothing pending")
		d.Trigger("draft")
		require.True(t, d.Flush())
		assert.Equal(t, []string{"draft"}, rec.values())
		assert.False(t, d.Pending())
	})

	t.Run("Stop Discards And Rejects", func(t *testing.T) {
		var calls atomic.Int32
		d := New(30*time.Millisecond, func(string) { calls.Add(1) })

		d.Trigger("a")
		d.Stop()
		assert.False(t, d.Trigger("b"))
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(0), calls.Load())
		d.Stop()
	})
}
