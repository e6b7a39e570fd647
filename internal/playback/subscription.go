package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends never block:
// events are dropped when a channel's buffer is full.
type Subscription struct {
	StatusChanged   <-chan StatusChange
	ItemChanged     <-chan ItemChange
	ProgressChanged <-chan ProgressChange
	QueueChanged    <-chan QueueChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	statusCh   chan StatusChange
	itemCh     chan ItemChange
	progressCh chan ProgressChange
	queueCh    chan QueueChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		statusCh:   make(chan StatusChange, eventBufferSize),
		itemCh:     make(chan ItemChange, eventBufferSize),
		progressCh: make(chan ProgressChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StatusChanged = s.statusCh
	s.ItemChanged = s.itemCh
	s.ProgressChanged = s.progressCh
	s.QueueChanged = s.queueCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendStatus sends a status change event (non-blocking).
func (s *Subscription) sendStatus(e StatusChange) {
	select {
	case s.statusCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendItem sends an item change event (non-blocking).
func (s *Subscription) sendItem(e ItemChange) {
	select {
	case s.itemCh <- e:
	default:
	}
}

// sendProgress sends a progress event (non-blocking).
func (s *Subscription) sendProgress(e ProgressChange) {
	select {
	case s.progressCh <- e:
	default:
	}
}

// sendQueue sends a queue change event (non-blocking).
func (s *Subscription) sendQueue(e QueueChange) {
	select {
	case s.queueCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
