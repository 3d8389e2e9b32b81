package sysclock

import (
	"testing"
	"time"
)

func TestClockScheduleFiresOnFire(t *testing.T) {
	c := New()
	fired := make(chan struct{})

	c.Schedule(c.Now()+20, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestClockCancelPreventsFire(t *testing.T) {
	c := New()
	fired := make(chan struct{})

	token := c.Schedule(c.Now()+50, func() { close(fired) })
	c.Cancel(token)

	select {
	case <-fired:
		t.Fatal("timer fired after cancellation")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClockNowAdvancesWithWallTime(t *testing.T) {
	c := New()
	first := c.Now()
	time.Sleep(5 * time.Millisecond)
	second := c.Now()
	if second <= first {
		t.Fatalf("expected Now() to advance, got %d then %d", first, second)
	}
}
