package ym2151

// lfoPMRange is the pitch swing at full PM depth, about one semitone
// around the programmed frequency.
const lfoPMRange = 0.0595

// stepLFO advances the LFO phase by lfoFreq*0.01/sampleRate (frozen at
// rate 0) and samples the waveform for the current tick.
func (c *Chip) stepLFO() {
	if c.lfoFreq > 0 {
		c.lfoPhase += float64(c.lfoFreq) * 0.01 / float64(c.sampleRate)
		if c.lfoPhase >= 1 {
			c.lfoPhase -= 1
		}
	}
	c.lfoOut = c.lfoValue()
}

// lfoValue returns the waveform sample for the current phase, in [0, 1].
// Waveforms: 0 triangle (0 up to 1 at phase 0.5, back to 0), 1 sawtooth
// (= phase), 2 square (1 for phase < 0.5 else 0), 3 random (uniform
// [0, 1) resampled every tick).
func (c *Chip) lfoValue() float64 {
	switch c.lfoWaveform {
	case 1:
		return c.lfoPhase
	case 2:
		if c.lfoPhase < 0.5 {
			return 1
		}
		return 0
	case 3:
		return c.rng.Float64()
	default:
		if c.lfoPhase < 0.5 {
			return c.lfoPhase * 2
		}
		return 2 - c.lfoPhase*2
	}
}

// SetLFOWaveform selects the LFO waveform (masked to 0-3).
func (c *Chip) SetLFOWaveform(waveform uint8) {
	c.lfoWaveform = waveform & 0x03
}

// SetLFODepth sets the amplitude and pitch modulation depths, clamped
// to [0, 1]. Both default to 0, which leaves the LFO running but
// inaudible until a driver opts in.
func (c *Chip) SetLFODepth(am, pm float64) {
	c.lfoAMDepth = clamp01(am)
	c.lfoPMDepth = clamp01(pm)
}

// lfoAM returns the AM amount for the current sample. Channels weight
// it per operator by the operator's AM sensitivity.
func (c *Chip) lfoAM() float64 {
	return c.lfoAMDepth * c.lfoOut
}

// lfoPM returns the phase increment scale for the current sample.
func (c *Chip) lfoPM() float64 {
	if c.lfoPMDepth == 0 {
		return 1
	}
	return 1 + c.lfoPMDepth*(c.lfoOut-0.5)*2*lfoPMRange
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
