package ym2151

import "math"

const twoPi = 2 * math.Pi

// FMParams is the per-operator voice parameter set, as decoded from the
// $40-$FF register region or set directly through GetOperator/SetParams.
type FMParams struct {
	DT1   uint8 // Detune 1 (3-bit)
	MUL   uint8 // Frequency multiplier (4-bit, 0 = x0.5, 1-15 = x1..x15)
	TL    uint8 // Total level attenuation (7-bit, 0 = loudest, 127 = silent)
	KS    uint8 // Key scale (2-bit)
	AR    uint8 // Attack rate (5-bit)
	AMS   uint8 // AM sensitivity (2-bit, 0 = no LFO amplitude modulation)
	DR    uint8 // Decay rate (5-bit)
	DT2   uint8 // Detune 2 (2-bit)
	SR    uint8 // Sustain rate (5-bit)
	SL    uint8 // Sustain level (4-bit)
	RR    uint8 // Release rate (4-bit)
	SSGEG bool  // SSG-EG flag (stored; the OPM has no SSG-EG hardware)
}

const sineTableSize = 1024

// sineTable holds one full sine cycle. Lookup is by truncation with no
// interpolation, ~-60 dBFS harmonic floor at 440 Hz / 44.1 kHz.
var sineTable [sineTableSize]float64

func init() {
	for i := range sineTable {
		sineTable[i] = math.Sin(twoPi * float64(i) / sineTableSize)
	}
}

// Operator is one sinusoidal oscillator with its own envelope generator
// and FM input port. Four per channel, created with their Channel and
// never destroyed independently of it.
type Operator struct {
	params FMParams

	phase float64 // effective phase after the last Output, [0, 2pi)
	stage uint8   // EGIdle..EGRelease
	level float64 // envelope level, [0, 1]
}

// Reset clears the oscillator and restores the power-on parameter set:
// silent, instant attack, fastest release.
func (o *Operator) Reset() {
	o.phase = 0
	o.stage = EGIdle
	o.level = 0
	o.params = FMParams{TL: 127, MUL: 1, AR: 31, RR: 15}
}

// SetParams replaces the operator's voice parameters.
func (o *Operator) SetParams(p FMParams) { o.params = p }

// Params returns the current voice parameters.
func (o *Operator) Params() FMParams { return o.params }

// Stage returns the current envelope stage (EGIdle..EGRelease).
func (o *Operator) Stage() uint8 { return o.stage }

// Level returns the current envelope level in [0, 1].
func (o *Operator) Level() float64 { return o.level }

// KeyOn starts the attack. AR 31 snaps straight to full level and
// enters decay, the limit the attack recurrence converges to.
func (o *Operator) KeyOn() {
	if o.params.AR >= 31 {
		o.level = 1
		o.stage = EGDecay
		return
	}
	o.stage = EGAttack
}

// KeyOff moves any sounding stage to release. Idle stays idle.
func (o *Operator) KeyOff() {
	if o.stage != EGIdle {
		o.stage = EGRelease
	}
}

// Output computes the operator's sample from the channel phase
// accumulator and the incoming modulation sum (upstream operator
// outputs, or self-feedback for operator 0):
//
//	phase_eff = phase*MUL + DT1*0.05 + DT2*0.1 + modulation
//
// wrapped to [0, 2pi) before the table lookup. The magnitude never
// exceeds the envelope level; arbitrarily large modulation is absorbed
// by the wrap.
func (o *Operator) Output(phase, modulation float64) float64 {
	mul := float64(o.params.MUL)
	if mul == 0 {
		mul = 0.5
	}
	detune := float64(o.params.DT1)*0.05 + float64(o.params.DT2)*0.1

	p := math.Mod(phase*mul+detune+modulation, twoPi)
	if p < 0 {
		p += twoPi
	}
	o.phase = p

	idx := int(p*sineTableSize/twoPi) & (sineTableSize - 1)
	return sineTable[idx] * o.level * (1 - float64(o.params.TL)/127)
}
