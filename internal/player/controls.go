package player

import (
	"time"
)

// unmuteDelay lets the output buffer drain after a seek before sound resumes.
const unmuteDelay = 100 * time.Millisecond

// Play starts or resumes rendering of the loaded source.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	p.state = Playing
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
	p.state = Paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	p.out.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	p.out.Unlock()
	return pos
}

// Seek moves the playback position to pos.
// Non-blocking: a pending request that has not started yet is superseded
// and reported as not applied.
func (p *Player) Seek(pos time.Duration, done func(ok bool)) {
	if done == nil {
		done = func(bool) {}
	}

	p.mu.Lock()
	if p.streamer == nil || p.closed {
		p.mu.Unlock()
		done(false)
		return
	}
	req := seekRequest{gen: p.gen, pos: pos, done: done}
	p.mu.Unlock()

	for {
		select {
		case p.seekChan <- req:
			return
		default:
		}
		// Channel full, drain and retry
		select {
		case old := <-p.seekChan:
			old.done(false)
		default:
		}
	}
}

// seekLoop processes seek requests sequentially.
func (p *Player) seekLoop() {
	for {
		select {
		case req := <-p.seekChan:
			req.done(p.doSeek(req))
		case <-p.quit:
			for {
				select {
				case req := <-p.seekChan:
					req.done(false)
				default:
					return
				}
			}
		}
	}
}

// doSeek performs the actual seek operation.
func (p *Player) doSeek(req seekRequest) bool {
	p.mu.Lock()
	if req.gen != p.gen || p.streamer == nil || p.volume == nil {
		p.mu.Unlock()
		return false
	}

	target := p.format.SampleRate.N(req.pos)
	if target < 0 || target > p.streamer.Len() {
		p.mu.Unlock()
		return false
	}

	// Mute, seek, then unmute to avoid audio artifacts
	p.out.Lock()
	p.volume.Silent = true
	err := p.streamer.Seek(target)
	p.out.Unlock()
	gen := p.gen
	p.mu.Unlock()

	if err != nil {
		p.log.Debug("seek failed", "pos", req.pos, "err", err)
	}

	// Brief pause to let buffer clear before unmuting
	time.Sleep(unmuteDelay)

	p.mu.Lock()
	if gen == p.gen && p.volume != nil {
		p.out.Lock()
		p.volume.Silent = p.level <= 0
		p.out.Unlock()
	}
	p.mu.Unlock()

	return err == nil
}
