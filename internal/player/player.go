package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
)

const resampleQuality = 4

type seekRequest struct {
	gen  uint64
	pos  time.Duration
	done func(ok bool)
}

// Player decodes in-memory sources with beep and renders them to the speaker.
type Player struct {
	mu       sync.Mutex
	out      output
	listener Listener
	log      *log.Logger

	state    State
	gen      uint64 // bumped on every Load and Release
	sourceID string
	format   beep.Format
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64

	seekChan chan seekRequest
	quit     chan struct{}
	closed   bool
}

// New creates a player rendering to the system speaker.
func New(logger *log.Logger) *Player {
	return newPlayer(&speakerOutput{}, logger)
}

func newPlayer(out output, logger *log.Logger) *Player {
	p := &Player{
		out:      out,
		log:      logging.Component(logger, "player"),
		state:    Stopped,
		level:    1.0,
		seekChan: make(chan seekRequest, 1),
		quit:     make(chan struct{}),
	}
	go p.seekLoop()
	return p
}

// SetListener registers the receiver of media signals.
func (p *Player) SetListener(l Listener) {
	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()
}

// Load implements Interface. Decoding runs on its own goroutine.
func (p *Player) Load(src Source) error {
	if len(src.Data) == 0 {
		return fmt.Errorf("%w: empty source", errmsg.ErrDecodeFailed)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errmsg.ErrClosed
	}
	p.releaseLocked()
	p.gen++
	gen := p.gen
	p.sourceID = src.ID
	p.mu.Unlock()

	go p.decodeSource(gen, src)
	return nil
}

func (p *Player) decodeSource(gen uint64, src Source) {
	streamer, format, name, err := decode(src.Data)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		if streamer != nil {
			_ = streamer.Close()
		}
		return
	}
	l := p.listener

	if err == nil {
		if initErr := p.out.Init(DefaultSampleRate); initErr != nil {
			_ = streamer.Close()
			err = fmt.Errorf("%w: speaker: %w", errmsg.ErrDecodeFailed, initErr)
		}
	}
	if err != nil {
		p.mu.Unlock()
		p.log.Warn(errmsg.FormatWith(errmsg.OpPlaybackLoad, src.ID, err))
		if l != nil {
			l.DecodeFailed(src.ID, err)
		}
		return
	}

	var playStreamer beep.Streamer = streamer
	if format.SampleRate != DefaultSampleRate {
		playStreamer = beep.Resample(resampleQuality, format.SampleRate, DefaultSampleRate, streamer)
	}

	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	p.volume = newVolume(p.ctrl, p.level)
	p.state = Paused
	duration := format.SampleRate.D(streamer.Len())

	id := src.ID
	p.out.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Runs on the audio goroutine with the output locked.
		go p.reachedEnd(gen, id)
	})))
	p.mu.Unlock()

	p.log.Debug("decoded", "id", id, "format", name, "rate", int(format.SampleRate), "duration", duration)
	if l != nil {
		l.DecodeReady(id, duration)
		// The whole resource is in memory.
		l.BufferedRangeChanged(id, 0, duration)
	}
}

func (p *Player) reachedEnd(gen uint64, id string) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.state = Stopped
	l := p.listener
	p.mu.Unlock()

	if l != nil {
		l.ReachedEnd(id)
	}
}

// Release stops playback and frees the decoder.
func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	if p.state == Stopped && p.streamer == nil {
		return
	}

	p.out.Clear()

	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.sourceID = ""
	p.state = Stopped
}

// State returns the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close releases the current source and the audio device.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.gen++
	p.releaseLocked()
	p.mu.Unlock()

	close(p.quit)
	p.out.Close()
	return nil
}
