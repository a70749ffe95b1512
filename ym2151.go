package ym2151

import "math/rand"

const (
	// DefaultClock is the 3.58 MHz master clock found on most arcade and
	// X68000 boards. Kept for future rate scaling; synthesis runs at the
	// host sample rate.
	DefaultClock = 3579545

	// DefaultSampleRate is the host rate assumed until SetSampleRate.
	DefaultSampleRate = 44100

	registerCount = 256
	channelCount  = 8
)

// Chip emulates the Yamaha YM2151 (OPM) as a pure software sample
// source: eight four-operator FM channels behind a 256-byte register
// file. Drivers program it with SetRegister and pull mono float32 PCM
// blocks with Generate. A Chip is not safe for concurrent use; writes
// and generation must happen on one goroutine or be serialized.
type Chip struct {
	clockHz    int
	sampleRate int
	gain       float64

	regs [registerCount]uint8
	ch   [channelCount]Channel

	// LFO
	lfoFreq     uint8   // 4-bit rate select from register $01
	lfoWaveform uint8   // 0=triangle, 1=sawtooth, 2=square, 3=random
	lfoPhase    float64 // [0, 1)
	lfoAMDepth  float64 // 0 disables amplitude coupling
	lfoPMDepth  float64 // 0 disables pitch coupling
	lfoOut      float64 // waveform value for the current sample
	rng         *rand.Rand

	// Timers. Values and enables are stored (and serialized) but
	// overflow processing and IRQ delivery are deferred.
	timerAVal    uint8
	timerBVal    uint8
	timerAEnable bool
	timerBEnable bool
	timerAOver   bool
	timerBOver   bool
}

// New creates a chip driven by the given master clock. A clock of 0 or
// below selects DefaultClock. The sample rate starts at
// DefaultSampleRate; change it with SetSampleRate before generating.
func New(clockHz int) *Chip {
	if clockHz <= 0 {
		clockHz = DefaultClock
	}
	c := &Chip{
		clockHz:    clockHz,
		sampleRate: DefaultSampleRate,
		gain:       1.0,
		rng:        rand.New(rand.NewSource(0x2151)),
	}
	for i := range c.ch {
		c.ch[i].SetSampleRate(c.sampleRate)
	}
	c.Reset()
	return c
}

// Reset returns the chip to power-on state: registers zeroed, all
// channels and operators reset, LFO and timer state cleared. The
// sample rate and gain are configuration and survive a reset.
func (c *Chip) Reset() {
	for i := range c.regs {
		c.regs[i] = 0
	}
	for i := range c.ch {
		c.ch[i].Reset()
	}
	c.lfoFreq = 0
	c.lfoWaveform = 0
	c.lfoPhase = 0
	c.lfoAMDepth = 0
	c.lfoPMDepth = 0
	c.lfoOut = 0
	c.timerAVal = 0
	c.timerBVal = 0
	c.timerAEnable = false
	c.timerBEnable = false
	c.timerAOver = false
	c.timerBOver = false
}

// SetSampleRate sets the host output rate in Hz. Rates <= 0 are ignored.
func (c *Chip) SetSampleRate(hz int) {
	if hz <= 0 {
		return
	}
	c.sampleRate = hz
	for i := range c.ch {
		c.ch[i].SetSampleRate(hz)
	}
}

// SampleRate returns the current host output rate in Hz.
func (c *Chip) SampleRate() int { return c.sampleRate }

// SetGain sets the scale applied to the summed channel mix (default 1.0).
func (c *Chip) SetGain(gain float64) { c.gain = gain }

// GetChannel returns channel index&7 for direct driver access.
func (c *Chip) GetChannel(index int) *Channel {
	return &c.ch[index&0x07]
}

// GetRegister returns the last byte written to the address. Every
// address round-trips, including ones the decoder ignores.
func (c *Chip) GetRegister(addr uint8) uint8 {
	return c.regs[addr]
}

// SetRegister stores the byte in the register file and routes defined
// addresses into channel and operator state. The effect is visible from
// the first sample of the next Generate call. Undefined addresses are
// stored verbatim and change nothing.
func (c *Chip) SetRegister(addr, val uint8) {
	c.regs[addr] = val

	switch {
	case addr == 0x01:
		c.lfoFreq = val & 0x0F
	case addr == 0x08:
		c.writeKeyOnOff(val)
	case addr == 0x0F:
		// Noise enable/frequency. The noise generator on slot 32 is
		// deferred; the register reads back but never sounds.
	case addr >= 0x10 && addr <= 0x17:
		ch := int(addr & 0x07)
		c.ch[ch].SetFrequency(uint16(c.regs[0x18+ch])<<8 | uint16(val))
	case addr >= 0x18 && addr <= 0x1F:
		ch := int(addr & 0x07)
		c.ch[ch].SetFrequency(uint16(val)<<8 | uint16(c.regs[0x10+ch]))
	case addr >= 0x20 && addr <= 0x27:
		ch := addr & 0x07
		c.ch[ch].SetAlgorithm(val & 0x07)
		c.ch[ch].SetFeedback((val >> 3) & 0x07)
	case addr >= 0x40:
		c.writeOperatorRegister(addr, val)
	}
}

// writeKeyOnOff handles register $08. Bit 7 selects key-on, bits 0-2
// the channel. The per-slot mask in bits 3-5 is accepted but ignored:
// any key event gates all four operators.
func (c *Chip) writeKeyOnOff(val uint8) {
	ch := &c.ch[val&0x07]
	if val&0x80 != 0 {
		ch.KeyOn()
	} else {
		ch.KeyOff()
	}
}

// writeOperatorRegister handles the operator parameter region $40-$FF.
// Address layout: bits 0-2 channel, bits 3-4 operator, bits 5-7 select
// the parameter group. Operator slots are positional (0-3).
func (c *Chip) writeOperatorRegister(addr, val uint8) {
	op := c.ch[addr&0x07].GetOperator(int(addr>>3) & 0x03)
	p := op.Params()

	switch addr & 0xE0 {
	case 0x40:
		// DT1/MUL
		p.DT1 = (val >> 4) & 0x07
		p.MUL = val & 0x0F
	case 0x60:
		// TL
		p.TL = val & 0x7F
	case 0x80:
		// KS/AR
		p.KS = (val >> 6) & 0x03
		p.AR = val & 0x1F
	case 0xA0:
		// AMS/DR
		p.AMS = (val >> 6) & 0x03
		p.DR = val & 0x1F
	case 0xC0:
		// DT2/SR
		p.DT2 = (val >> 6) & 0x03
		p.SR = val & 0x1F
	case 0xE0:
		// SL/RR
		p.SL = (val >> 4) & 0x0F
		p.RR = val & 0x0F
	}

	op.SetParams(p)
}

// Generate fills buf with the next len(buf) mono samples: per sample it
// advances the timers and LFO, then sums the output of all eight
// channels scaled by the chip gain. An empty buf is a no-op. The loop
// is allocation-free.
func (c *Chip) Generate(buf []float32) {
	for i := range buf {
		c.stepTimers()
		c.stepLFO()

		am := c.lfoAM()
		pm := c.lfoPM()

		var sample float64
		for ch := range c.ch {
			c.ch[ch].setLFO(am, pm)
			sample += c.ch[ch].Output()
		}
		buf[i] = float32(sample * c.gain)
	}
}

// stepTimers is the per-sample timer hook. Timer values, enables, and
// overflow flags are stored state only; counting and IRQ delivery are
// deferred, so nothing advances here.
func (c *Chip) stepTimers() {}
