package playback

import "sync"

// serial runs posted functions one at a time, in posting order, on its own
// goroutine. Posting never blocks, including from the functions it runs.
type serial struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func newSerial() *serial {
	s := &serial{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

// post queues fn. It returns false once the queue is closed.
func (s *serial) post(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
	s.signal()
	return true
}

func (s *serial) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *serial) run() {
	defer close(s.done)
	for {
		<-s.wake
		for {
			s.mu.Lock()
			batch := s.pending
			s.pending = nil
			closed := s.closed
			s.mu.Unlock()

			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}
			for _, fn := range batch {
				fn()
			}
		}
	}
}

// close stops accepting work. Functions already queued still run.
func (s *serial) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

// wait blocks until the goroutine has drained the queue and exited.
func (s *serial) wait() {
	<-s.done
}
