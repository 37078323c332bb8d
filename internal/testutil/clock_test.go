package testutil

import (
	"testing"
	"time"
)

func TestFixedClock_Advances(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewFixedClock(start, time.Second)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("first Now() = %v, want %v", got, start)
	}
	if got := c.Now(); !got.Equal(start.Add(time.Second)) {
		t.Errorf("second Now() = %v, want %v", got, start.Add(time.Second))
	}
}

func TestFixedClock_Set(t *testing.T) {
	c := NewFixedClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Minute)
	repinned := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	c.Set(repinned)
	if got := c.Now(); !got.Equal(repinned) {
		t.Errorf("Now() after Set = %v, want %v", got, repinned)
	}
}

func TestFixedClock_Concurrent(t *testing.T) {
	c := NewFixedClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Millisecond)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.Now()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(800 * time.Millisecond)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("after 800 ticks Now() = %v, want %v", got, want)
	}
}
