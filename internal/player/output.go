package player

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the rate the speaker is opened at. Sources at other
// rates are resampled.
const DefaultSampleRate = beep.SampleRate(44100)

// output is the audio sink. The speaker is process-global, so tests swap in
// a sink that streams on demand.
type output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
	Close()
}

type speakerOutput struct {
	initialized bool
}

func (o *speakerOutput) Init(rate beep.SampleRate) error {
	if o.initialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	o.initialized = true
	return nil
}

func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (o *speakerOutput) Clear() {
	if o.initialized {
		speaker.Clear()
	}
}

func (o *speakerOutput) Lock()   { speaker.Lock() }
func (o *speakerOutput) Unlock() { speaker.Unlock() }

func (o *speakerOutput) Close() {
	if o.initialized {
		speaker.Close()
		o.initialized = false
	}
}
