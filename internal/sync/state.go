package sync

import "sync"

// State is shared by the Local Watcher and the Remote Poller. Every
// field is guarded by mu.
type State struct {
	mu             sync.Mutex
	lastValue      string
	echoSuppressed bool
	running        bool
	done           chan struct{}
}

func NewState() *State {
	return &State{
		running: true,
		done:    make(chan struct{}),
	}
}

func (s *State) LastValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastValue
}

func (s *State) SetLastValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastValue = value
}

func (s *State) EchoSuppressed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.echoSuppressed
}

func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop clears the running flag. It reports whether this call made the
// transition; later calls are no-ops.
func (s *State) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.running = false
	close(s.done)
	return true
}

// Done is closed by the first Stop.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// WithLock runs fn with the state locked. Work done inside fn, such as
// reading or writing the clipboard, is atomic with respect to the other
// worker.
func (s *State) WithLock(fn func(l *Locked)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&Locked{s: s})
}

// Locked gives access to State from inside WithLock. It must not be
// retained after fn returns.
type Locked struct {
	s *State
}

func (l *Locked) LastValue() string { return l.s.lastValue }

func (l *Locked) SetLastValue(value string) { l.s.lastValue = value }

func (l *Locked) EchoSuppressed() bool { return l.s.echoSuppressed }

func (l *Locked) SetEchoSuppressed(v bool) { l.s.echoSuppressed = v }

func (l *Locked) Running() bool { return l.s.running }
