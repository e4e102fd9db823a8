package events

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewEventBus(16)
	defer bus.Stop()

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeFrameCaptured, func(e Event) {
		received <- e
	})

	bus.Publish(Event{
		Type:   EventTypeFrameCaptured,
		Source: "test",
		Data:   map[string]interface{}{"frames": 3},
	})

	select {
	case e := <-received:
		if e.Source != "test" {
			t.Errorf("source = %q, want test", e.Source)
		}
		if e.Data["frames"] != 3 {
			t.Errorf("data = %v, want frames=3", e.Data)
		}
		if e.Timestamp.IsZero() {
			t.Error("timestamp was not stamped on publish")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached subscriber")
	}
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	bus := NewEventBus(16)
	defer bus.Stop()

	var count int64
	bus.Subscribe(EventTypeStitchCompleted, func(Event) {
		atomic.AddInt64(&count, 1)
	})

	done := make(chan struct{})
	bus.Subscribe(EventTypeSessionCancelled, func(Event) {
		close(done)
	})

	bus.Publish(Event{Type: EventTypeFrameCaptured})
	bus.Publish(Event{Type: EventTypeSessionCancelled})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("marker event never arrived")
	}

	if atomic.LoadInt64(&count) != 0 {
		t.Error("subscriber received an event of another type")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(16)
	defer bus.Stop()

	id := bus.Subscribe(EventTypeError, func(Event) {})
	if got := bus.GetSubscriberCount(EventTypeError); got != 1 {
		t.Fatalf("subscriber count = %d, want 1", got)
	}

	bus.Unsubscribe(id)
	if got := bus.GetSubscriberCount(EventTypeError); got != 0 {
		t.Errorf("subscriber count after unsubscribe = %d, want 0", got)
	}
}

func TestHandlerPanicDoesNotKillBus(t *testing.T) {
	bus := NewEventBus(16)
	defer bus.Stop()

	bus.Subscribe(EventTypeError, func(Event) {
		panic("handler exploded")
	})

	survived := make(chan struct{})
	bus.Subscribe(EventTypeFrameCaptured, func(Event) {
		close(survived)
	})

	bus.Publish(Event{Type: EventTypeError})
	bus.Publish(Event{Type: EventTypeFrameCaptured})

	select {
	case <-survived:
	case <-time.After(2 * time.Second):
		t.Fatal("bus stopped dispatching after a handler panic")
	}
}
