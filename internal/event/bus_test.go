package event

import "testing"

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe(TypeSessionIdle, func(ev Event) {
		received = append(received, ev)
	})

	bus.Publish(NewSessionIdleEvent("s1", "Write(file.go)"))
	bus.Publish(NewSessionDetectedEvent("s1")) // different type, not delivered

	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	idle, ok := received[0].(SessionIdleEvent)
	if !ok {
		t.Fatalf("received event of type %T, want SessionIdleEvent", received[0])
	}
	if idle.SessionID != "s1" || idle.Message != "Write(file.go)" {
		t.Errorf("event fields = %q/%q, want s1/Write(file.go)", idle.SessionID, idle.Message)
	}
}

func TestBus_Wildcard(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe("*", func(Event) { count++ })

	bus.Publish(NewSessionDetectedEvent("s1"))
	bus.Publish(NewSessionStatusChangedEvent("s1", "unknown", "working", ""))
	bus.Publish(NewSessionExitedEvent("s1", 0, nil))

	if count != 3 {
		t.Errorf("wildcard handler saw %d events, want 3", count)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe(TypeSessionIdle, func(Event) { count++ })

	bus.Publish(NewSessionIdleEvent("s1", ""))
	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe returned false for a live subscription")
	}
	bus.Publish(NewSessionIdleEvent("s1", ""))

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
	if bus.Unsubscribe(id) {
		t.Error("Unsubscribe should return false for an already-removed id")
	}
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(TypeSessionIdle, func(Event) { panic("boom") })

	called := false
	bus.Subscribe(TypeSessionIdle, func(Event) { called = true })

	bus.Publish(NewSessionIdleEvent("s1", ""))
	if !called {
		t.Error("second handler not called after first panicked")
	}
}

func TestBus_EventMetadata(t *testing.T) {
	ev := NewSessionStatusChangedEvent("s1", "working", "idle", "done")

	if ev.EventType() != TypeSessionStatusChanged {
		t.Errorf("EventType() = %q, want %q", ev.EventType(), TypeSessionStatusChanged)
	}
	if ev.Timestamp().IsZero() {
		t.Error("Timestamp() should be set on creation")
	}
	if ev.Old != "working" || ev.New != "idle" {
		t.Errorf("transition = %v -> %v, want working -> idle", ev.Old, ev.New)
	}
}
