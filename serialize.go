package ym2151

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	serializeVersion = 1

	// Per-operator: params(12) + stage(1) + level(8) + phase(8)
	operatorSerializeSize = 29
	// Per-channel, non-operator fields:
	// frequency(2) + algorithm(1) + feedback(1) + keyOn(1) + phase(8) + fbBuf(16)
	channelSerializeSize = 29
	// Global: regs(256) + lfoFreq(1) + lfoWaveform(1) + lfoPhase(8) +
	// lfoAMDepth(8) + lfoPMDepth(8) + lfoOut(8) + timer values(2) +
	// timer flags(4)
	globalSerializeSize = 296
)

// ChipSerializeSize is the total bytes needed to serialize a Chip:
// version(1) + 32 operators + 8 channels + global state.
const ChipSerializeSize = 1 + 32*operatorSerializeSize + 8*channelSerializeSize + globalSerializeSize

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func putFloat(buf []byte, off int, v float64) int {
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
	return off + 8
}

func getFloat(buf []byte, off int) (float64, int) {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:])), off + 8
}

// SerializeSize returns the buffer size Serialize requires. The value
// is constant, so callers can pre-allocate a reusable buffer.
func (c *Chip) SerializeSize() int { return ChipSerializeSize }

// Serialize writes all mutable chip state into buf in a compact
// little-endian format. Returns an error if len(buf) < SerializeSize().
// Construction-time config (clock, sample rate, gain) and the
// random-LFO generator are not included; the caller re-applies those
// through New, SetSampleRate, and SetGain.
func (c *Chip) Serialize(buf []byte) error {
	if len(buf) < ChipSerializeSize {
		return errors.New("ym2151: serialize buffer too small")
	}

	buf[0] = serializeVersion
	off := 1

	for ch := range c.ch {
		for op := range c.ch[ch].op {
			off = serializeOperator(&c.ch[ch].op[op], buf, off)
		}
	}
	for ch := range c.ch {
		off = serializeChannel(&c.ch[ch], buf, off)
	}

	copy(buf[off:], c.regs[:])
	off += registerCount
	buf[off] = c.lfoFreq
	off++
	buf[off] = c.lfoWaveform
	off++
	off = putFloat(buf, off, c.lfoPhase)
	off = putFloat(buf, off, c.lfoAMDepth)
	off = putFloat(buf, off, c.lfoPMDepth)
	off = putFloat(buf, off, c.lfoOut)
	buf[off] = c.timerAVal
	off++
	buf[off] = c.timerBVal
	off++
	buf[off] = boolByte(c.timerAEnable)
	off++
	buf[off] = boolByte(c.timerBEnable)
	off++
	buf[off] = boolByte(c.timerAOver)
	off++
	buf[off] = boolByte(c.timerBOver)
	return nil
}

// Deserialize restores all mutable chip state from buf, which must have
// been produced by Serialize. Returns an error if the buffer is too
// small or was written by an incompatible version.
func (c *Chip) Deserialize(buf []byte) error {
	if len(buf) < ChipSerializeSize {
		return errors.New("ym2151: deserialize buffer too small")
	}
	if buf[0] != serializeVersion {
		return errors.New("ym2151: unsupported serialize version")
	}

	off := 1
	for ch := range c.ch {
		for op := range c.ch[ch].op {
			off = deserializeOperator(&c.ch[ch].op[op], buf, off)
		}
	}
	for ch := range c.ch {
		off = deserializeChannel(&c.ch[ch], buf, off)
	}

	copy(c.regs[:], buf[off:off+registerCount])
	off += registerCount
	c.lfoFreq = buf[off]
	off++
	c.lfoWaveform = buf[off]
	off++
	c.lfoPhase, off = getFloat(buf, off)
	c.lfoAMDepth, off = getFloat(buf, off)
	c.lfoPMDepth, off = getFloat(buf, off)
	c.lfoOut, off = getFloat(buf, off)
	c.timerAVal = buf[off]
	off++
	c.timerBVal = buf[off]
	off++
	c.timerAEnable = buf[off] != 0
	off++
	c.timerBEnable = buf[off] != 0
	off++
	c.timerAOver = buf[off] != 0
	off++
	c.timerBOver = buf[off] != 0
	return nil
}

func serializeOperator(o *Operator, buf []byte, off int) int {
	p := o.params
	buf[off+0] = p.DT1
	buf[off+1] = p.MUL
	buf[off+2] = p.TL
	buf[off+3] = p.KS
	buf[off+4] = p.AR
	buf[off+5] = p.AMS
	buf[off+6] = p.DR
	buf[off+7] = p.DT2
	buf[off+8] = p.SR
	buf[off+9] = p.SL
	buf[off+10] = p.RR
	buf[off+11] = boolByte(p.SSGEG)
	buf[off+12] = o.stage
	off = putFloat(buf, off+13, o.level)
	off = putFloat(buf, off, o.phase)
	return off
}

func deserializeOperator(o *Operator, buf []byte, off int) int {
	o.params = FMParams{
		DT1:   buf[off+0],
		MUL:   buf[off+1],
		TL:    buf[off+2],
		KS:    buf[off+3],
		AR:    buf[off+4],
		AMS:   buf[off+5],
		DR:    buf[off+6],
		DT2:   buf[off+7],
		SR:    buf[off+8],
		SL:    buf[off+9],
		RR:    buf[off+10],
		SSGEG: buf[off+11] != 0,
	}
	o.stage = buf[off+12]
	o.level, off = getFloat(buf, off+13)
	o.phase, off = getFloat(buf, off)
	return off
}

func serializeChannel(c *Channel, buf []byte, off int) int {
	binary.LittleEndian.PutUint16(buf[off:], c.frequency)
	off += 2
	buf[off] = c.algorithm
	off++
	buf[off] = c.feedback
	off++
	buf[off] = boolByte(c.keyOn)
	off++
	off = putFloat(buf, off, c.phase)
	off = putFloat(buf, off, c.fbBuf[0])
	off = putFloat(buf, off, c.fbBuf[1])
	return off
}

func deserializeChannel(c *Channel, buf []byte, off int) int {
	c.frequency = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	c.algorithm = buf[off]
	off++
	c.feedback = buf[off]
	off++
	c.keyOn = buf[off] != 0
	off++
	c.phase, off = getFloat(buf, off)
	c.fbBuf[0], off = getFloat(buf, off)
	c.fbBuf[1], off = getFloat(buf, off)
	return off
}
