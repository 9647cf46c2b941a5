package session

import (
	"strings"
	"testing"
	"time"

	"github.com/glimpsehq/glimpse/internal/event"
)

func shellSession(t *testing.T, script string) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.Command = []string{"/bin/sh", "-c", script}
	return opts
}

func waitDone(t *testing.T, sess *Session) {
	t.Helper()
	select {
	case <-sess.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not exit in time")
	}
}

func TestManager_SpawnRejectsEmptyCommand(t *testing.T) {
	m := NewManager(nil, nil)
	defer m.CloseAll()

	opts := DefaultOptions()
	opts.Command = nil
	if _, err := m.Spawn(opts); err == nil {
		t.Error("Spawn with empty command should fail")
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("List() after failed spawn has %d sessions, want 0", got)
	}
}

func TestManager_SpawnRejectsMissingBinary(t *testing.T) {
	m := NewManager(nil, nil)
	defer m.CloseAll()

	opts := DefaultOptions()
	opts.Command = []string{"/nonexistent/agent-binary"}
	if _, err := m.Spawn(opts); err == nil {
		t.Error("Spawn with missing binary should fail")
	}
}

func TestManager_SpawnGetListRemove(t *testing.T) {
	m := NewManager(nil, nil)
	defer m.CloseAll()

	first, err := m.Spawn(shellSession(t, "sleep 10"))
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	second, err := m.Spawn(shellSession(t, "sleep 10"))
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	if got, ok := m.Get(first.ID()); !ok || got != first {
		t.Errorf("Get(%q) = %v, %v", first.ID(), got, ok)
	}
	if _, ok := m.Get("no-such-id"); ok {
		t.Error("Get of unknown id should report false")
	}

	list := m.List()
	if len(list) != 2 || list[0] != first || list[1] != second {
		t.Errorf("List() = %v, want [first second] in creation order", list)
	}

	if !m.Remove(first.ID()) {
		t.Error("Remove of known session should report true")
	}
	if m.Remove(first.ID()) {
		t.Error("Remove of already-removed session should report false")
	}
	if list := m.List(); len(list) != 1 || list[0] != second {
		t.Errorf("List() after Remove = %v, want [second]", list)
	}
	waitDone(t, first)
}

func TestManager_CloseAll(t *testing.T) {
	m := NewManager(nil, nil)

	sessions := make([]*Session, 0, 2)
	for range 2 {
		sess, err := m.Spawn(shellSession(t, "sleep 10"))
		if err != nil {
			t.Fatalf("Spawn() error: %v", err)
		}
		sessions = append(sessions, sess)
	}

	m.CloseAll()
	if got := len(m.List()); got != 0 {
		t.Errorf("List() after CloseAll has %d sessions, want 0", got)
	}
	for _, sess := range sessions {
		waitDone(t, sess)
	}
}

func TestSession_ExitCodes(t *testing.T) {
	m := NewManager(nil, nil)
	defer m.CloseAll()

	t.Run("clean exit", func(t *testing.T) {
		sess, err := m.Spawn(shellSession(t, "exit 0"))
		if err != nil {
			t.Fatalf("Spawn() error: %v", err)
		}
		waitDone(t, sess)

		code, exited := sess.ExitCode()
		if !exited || code != 0 {
			t.Errorf("ExitCode() = %d, %v, want 0, true", code, exited)
		}
		if sess.State() == StateError {
			t.Error("clean exit should not report the error state")
		}
	})

	t.Run("failure exit", func(t *testing.T) {
		sess, err := m.Spawn(shellSession(t, "exit 3"))
		if err != nil {
			t.Fatalf("Spawn() error: %v", err)
		}
		waitDone(t, sess)

		code, exited := sess.ExitCode()
		if !exited || code != 3 {
			t.Errorf("ExitCode() = %d, %v, want 3, true", code, exited)
		}
		if sess.State() != StateError {
			t.Errorf("State() after failure = %v, want error", sess.State())
		}
	})
}

func TestSession_EndToEndDetection(t *testing.T) {
	bus := event.NewBus()
	rec := record(bus)
	m := NewManager(bus, nil)
	defer m.CloseAll()

	script := `printf 'Claude Code v1.0\n'; printf '\342\217\272 Write(main.go)\n'; sleep 0.2`
	sess, err := m.Spawn(shellSession(t, script))
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	waitDone(t, sess)

	if !sess.Detected() {
		t.Error("agent banner over the pty should trigger detection")
	}
	if got := sess.LastMessage(); !strings.Contains(got, "Write") {
		t.Errorf("LastMessage() = %q, want the action line summary", got)
	}
	if got := rec.typeCount(event.TypeSessionDetected); got != 1 {
		t.Errorf("detected events = %d, want 1", got)
	}
	if got := rec.typeCount(event.TypeSessionExited); got != 1 {
		t.Errorf("exited events = %d, want 1", got)
	}
	if !strings.Contains(sess.Scrollback(), "Claude Code") {
		t.Error("scrollback should retain the raw session output")
	}
}
