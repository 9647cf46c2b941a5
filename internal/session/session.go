// Package session owns the lifecycle of one monitored agent terminal: it
// spawns the agent on a pty, pumps output chunks into the interpreter,
// runs the caller-side idle watchdog, and publishes state transitions on
// the event bus.
package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/glimpsehq/glimpse/internal/capture"
	"github.com/glimpsehq/glimpse/internal/event"
	"github.com/glimpsehq/glimpse/internal/interpret"
	"github.com/glimpsehq/glimpse/internal/logging"
)

// Options configures a session.
type Options struct {
	// Command is the agent command line to spawn (argv form).
	Command []string

	// QuietPeriod is how long the session may produce no output before
	// the idle watchdog consults the interpreter. Zero disables the
	// watchdog.
	QuietPeriod time.Duration

	// ScrollbackSize is the raw output retention in bytes.
	ScrollbackSize int

	// Interpreter tunes the output interpreter.
	Interpreter interpret.Options

	// Rows and Cols size the pty.
	Rows, Cols uint16
}

// DefaultOptions returns the standard session configuration.
func DefaultOptions() Options {
	return Options{
		Command:        []string{"claude"},
		QuietPeriod:    4 * time.Second,
		ScrollbackSize: 100000,
		Interpreter:    interpret.DefaultOptions(),
		Rows:           40,
		Cols:           120,
	}
}

// Session is one monitored agent terminal.
//
// The pty read loop is the only writer into the interpreter; everything
// else observes through the mutex-guarded accessors. The watchdog timer is
// rescheduled on every chunk, so it only fires after a genuine quiet
// period.
type Session struct {
	id   string
	opts Options
	bus  *event.Bus
	log  *logging.Logger

	mu          sync.Mutex
	cmd         *exec.Cmd
	ptmx        *os.File
	interp      *interpret.Interpreter
	scroll      *capture.Scrollback
	watchdog    *time.Timer
	state       DisplayState
	lastMessage string
	started     bool
	closed      bool
	exited      bool
	exitCode    int

	done chan struct{}
}

// New creates a session without starting it. A nil bus or logger is
// replaced with a no-op one.
func New(opts Options, bus *event.Bus, log *logging.Logger) *Session {
	if bus == nil {
		bus = event.NewBus()
	}
	if log == nil {
		log = logging.Discard()
	}
	if opts.ScrollbackSize <= 0 {
		opts.ScrollbackSize = DefaultOptions().ScrollbackSize
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		opts:   opts,
		bus:    bus,
		log:    log.With("session_id", id),
		interp: interpret.NewWithOptions(opts.Interpreter),
		scroll: capture.NewScrollback(opts.ScrollbackSize),
		done:   make(chan struct{}),
	}
}

// Start spawns the agent command on a pty and begins reading its output.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("session already started")
	}
	if len(s.opts.Command) == 0 {
		return errors.New("session has no command")
	}

	cmd := exec.Command(s.opts.Command[0], s.opts.Command[1:]...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: s.opts.Rows, Cols: s.opts.Cols})
	if err != nil {
		s.state = StateError
		return fmt.Errorf("starting pty: %w", err)
	}

	s.cmd = cmd
	s.ptmx = ptmx
	s.started = true
	s.log.Info("session started", "command", s.opts.Command)

	go s.readLoop(ptmx)
	return nil
}

// readLoop pumps pty output until EOF, carrying incomplete UTF-8 tails to
// the next read so multi-byte glyphs split across reads stay intact.
func (s *Session) readLoop(ptmx *os.File) {
	buf := make([]byte, 4096)
	var pending []byte

	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			_, _ = s.scroll.Write(buf[:n])

			pending = append(pending, buf[:n]...)
			complete := completePrefix(pending)
			if complete > 0 {
				s.handleChunk(string(pending[:complete]))
				pending = pending[complete:]
			}
		}
		if err != nil {
			break
		}
	}

	if len(pending) > 0 {
		s.handleChunk(string(pending))
	}
	s.finish()
}

// completePrefix returns the length of the longest prefix of b that ends
// on a UTF-8 rune boundary.
func completePrefix(b []byte) int {
	end := len(b)
	for end > 0 && end > len(b)-utf8.UTFMax {
		r, size := utf8.DecodeLastRune(b[:end])
		if r != utf8.RuneError || size > 1 {
			return end
		}
		end--
	}
	return end
}

// handleChunk runs one interpreter ingestion and applies its report.
func (s *Session) handleChunk(chunk string) {
	s.mu.Lock()

	wasDetected := s.interp.HasDetected()
	report := s.interp.Ingest(chunk)
	if report.Message != "" {
		s.lastMessage = report.Message
	}

	var evs []event.Event
	if !wasDetected && s.interp.HasDetected() {
		s.log.Info("agent detected")
		evs = append(evs, event.NewSessionDetectedEvent(s.id))
	}
	switch report.Status {
	case interpret.StatusWorking:
		evs = append(evs, s.setStateLocked(StateWorking)...)
	case interpret.StatusIdle:
		evs = append(evs, s.setStateLocked(StateIdle)...)
	}
	s.rescheduleWatchdogLocked()

	s.mu.Unlock()
	s.publish(evs)
}

// rescheduleWatchdogLocked cancels and re-arms the quiet timer. Called on
// every ingest; cancellation is simply "don't fire".
func (s *Session) rescheduleWatchdogLocked() {
	if s.closed || s.opts.QuietPeriod <= 0 {
		return
	}
	if s.watchdog == nil {
		s.watchdog = time.AfterFunc(s.opts.QuietPeriod, s.onQuiet)
		return
	}
	s.watchdog.Reset(s.opts.QuietPeriod)
}

// onQuiet fires when a session has produced no output for the quiet
// period. The interpreter confirms idleness if its last status allows; a
// session that goes quiet while still classified as working is surfaced
// as waiting, typically an unanswered modal prompt.
func (s *Session) onQuiet() {
	s.mu.Lock()
	if s.closed || s.exited {
		s.mu.Unlock()
		return
	}

	var evs []event.Event
	if report, ok := s.interp.CheckIdle(); ok {
		if report.Message != "" {
			s.lastMessage = report.Message
		}
		evs = s.setStateLocked(StateIdle)
	} else if s.state == StateWorking {
		evs = s.setStateLocked(StateWaiting)
	}

	s.mu.Unlock()
	s.publish(evs)
}

// setStateLocked transitions the display state, returning the events to
// publish once the lock is released. A working-to-idle transition emits
// the idle notification on top of the plain state change.
func (s *Session) setStateLocked(next DisplayState) []event.Event {
	if s.state == next {
		return nil
	}
	prev := s.state
	s.state = next
	s.log.Debug("state changed", "old", prev.String(), "new", next.String())

	evs := []event.Event{
		event.NewSessionStatusChangedEvent(s.id, prev.String(), next.String(), s.lastMessage),
	}
	if prev == StateWorking && next == StateIdle {
		evs = append(evs, event.NewSessionIdleEvent(s.id, s.lastMessage))
	}
	return evs
}

// publish delivers events outside the session lock to keep subscribers
// free to call back into the session.
func (s *Session) publish(evs []event.Event) {
	for _, ev := range evs {
		s.bus.Publish(ev)
	}
}

// finish reaps the process and publishes the exit.
func (s *Session) finish() {
	err := s.cmd.Wait()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	s.mu.Lock()
	s.exited = true
	s.exitCode = code
	if s.watchdog != nil {
		s.watchdog.Stop()
	}

	var evs []event.Event
	if code != 0 {
		evs = s.setStateLocked(StateError)
	} else if s.state == StateWorking || s.state == StateUnknown {
		evs = s.setStateLocked(StateIdle)
	}
	evs = append(evs, event.NewSessionExitedEvent(s.id, code, err))
	s.mu.Unlock()

	s.log.Info("session exited", "exit_code", code)
	s.publish(evs)
	close(s.done)
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Command returns the agent command line this session runs.
func (s *Session) Command() string { return strings.Join(s.opts.Command, " ") }

// State returns the current display state.
func (s *Session) State() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastMessage returns the most recent one-line summary, possibly empty.
func (s *Session) LastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMessage
}

// Detected reports whether an agent signature has been seen.
func (s *Session) Detected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interp.HasDetected()
}

// RawTail returns the interpreter's capped raw buffer, control sequences
// intact, for the copy/export debug surface.
func (s *Session) RawTail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interp.Buffer()
}

// Scrollback returns the full retained raw output.
func (s *Session) Scrollback() string {
	return s.scroll.String()
}

// ExitCode returns the process exit code once the session has exited.
func (s *Session) ExitCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.exited
}

// Done is closed when the session's process has been reaped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Write forwards keystrokes to the agent's terminal.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()

	if ptmx == nil {
		return 0, os.ErrClosed
	}
	return ptmx.Write(p)
}

// Resize adjusts the pty dimensions.
func (s *Session) Resize(rows, cols uint16) error {
	s.mu.Lock()
	ptmx := s.ptmx
	s.mu.Unlock()

	if ptmx == nil {
		return os.ErrClosed
	}
	return pty.Setsize(ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// SetQuietPeriod changes the watchdog interval, taking effect at the next
// rearm. Zero disables the watchdog.
func (s *Session) SetQuietPeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.QuietPeriod = d
	if s.watchdog != nil {
		s.watchdog.Stop()
		s.watchdog = nil
	}
	s.rescheduleWatchdogLocked()
}

// Reset returns the session's interpretation state to initial values, for
// reusing the terminal with a fresh agent run.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interp.Reset()
	s.scroll.Reset()
	s.lastMessage = ""
	s.state = StateUnknown
}

// Close terminates the process and releases the pty. Safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.watchdog != nil {
		s.watchdog.Stop()
	}
	cmd, ptmx := s.cmd, s.ptmx
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}
