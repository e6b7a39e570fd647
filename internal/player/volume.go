package player

import (
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// silentGain is the base-2 gain used for level 0; beep's Silent flag does the
// actual muting.
const silentGain = -10

// SetVolume sets the output level, clamped to [0, 1]. The level carries over
// to later loads.
func (p *Player) SetVolume(level float64) {
	level = max(0, min(level, 1))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if p.volume != nil {
		p.out.Lock()
		applyLevel(p.volume, level)
		p.out.Unlock()
	}
}

// Volume returns the output level in [0, 1].
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func newVolume(s beep.Streamer, level float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	applyLevel(v, level)
	return v
}

// applyLevel must run with the output locked once v is playing.
func applyLevel(v *effects.Volume, level float64) {
	v.Volume = levelToGain(level)
	v.Silent = level <= 0
}

// levelToGain maps a linear level onto beep's base-2 gain: 1 -> 0,
// 0.5 -> -1, 0.25 -> -2.
func levelToGain(level float64) float64 {
	switch {
	case level <= 0:
		return silentGain
	case level >= 1:
		return 0
	}
	return math.Log2(level)
}
