package ym2151

// Channel is one of the chip's eight FM voices: four operators in fixed
// positions, an algorithm router, and the operator-0 self-feedback path.
type Channel struct {
	op [4]Operator

	frequency uint16 // 14-bit frequency word from registers $10+c/$18+c
	algorithm uint8  // 3-bit algorithm select
	feedback  uint8  // 3-bit feedback depth, 0 = off
	keyOn     bool

	sampleRate float64
	phase      float64    // phase accumulator, [0, 2pi)
	fbBuf      [2]float64 // previous two operator-0 outputs

	lfoAM float64 // AM amount for the current sample, set by the chip
	lfoPM float64 // phase increment scale for the current sample
}

// Reset silences the channel: operators reset, frequency and routing
// cleared, gate closed, phase and feedback history zeroed. The sample
// rate is configuration and survives.
func (c *Channel) Reset() {
	for i := range c.op {
		c.op[i].Reset()
	}
	c.frequency = 0
	c.algorithm = 0
	c.feedback = 0
	c.keyOn = false
	c.phase = 0
	c.fbBuf[0] = 0
	c.fbBuf[1] = 0
	c.lfoAM = 0
	c.lfoPM = 1
}

// SetFrequency sets the 14-bit frequency word. The register pair is
// treated as a linear frequency value in Hz; mapping from the hardware
// key-code/key-fraction form is a driver concern.
func (c *Channel) SetFrequency(word uint16) {
	c.frequency = word & 0x3FFF
}

// SetAlgorithm selects the operator topology (masked to 0-7).
func (c *Channel) SetAlgorithm(algorithm uint8) {
	c.algorithm = algorithm & 0x07
}

// SetFeedback sets the operator-0 self-feedback depth (masked to 0-7).
func (c *Channel) SetFeedback(feedback uint8) {
	c.feedback = feedback & 0x07
}

// SetSampleRate sets the rate the phase accumulator advances against.
// Rates <= 0 are ignored.
func (c *Channel) SetSampleRate(hz int) {
	if hz > 0 {
		c.sampleRate = float64(hz)
	}
}

// KeyOn opens the gate and starts the attack on all four operators. The
// phase accumulator keeps running so retriggered notes stay legato.
func (c *Channel) KeyOn() {
	c.keyOn = true
	for i := range c.op {
		c.op[i].KeyOn()
	}
}

// KeyOff closes the gate and moves all four operators to release.
func (c *Channel) KeyOff() {
	c.keyOn = false
	for i := range c.op {
		c.op[i].KeyOff()
	}
}

// GetOperator returns operator index&3 for direct driver access.
func (c *Channel) GetOperator(index int) *Operator {
	return &c.op[index&0x03]
}

// setLFO hands the channel the chip LFO's per-sample AM amount and
// phase increment scale ahead of Output.
func (c *Channel) setLFO(am, pm float64) {
	c.lfoAM = am
	c.lfoPM = pm
}

// allIdle reports whether every operator envelope has gone idle.
func (c *Channel) allIdle() bool {
	for i := range c.op {
		if c.op[i].stage != EGIdle {
			return false
		}
	}
	return true
}

// Output advances the channel by one tick and returns the mixed carrier
// sample. Envelopes keep running after key-off so releases ring out;
// the early return fires only once the gate is closed and every
// operator has decayed to idle.
func (c *Channel) Output() float64 {
	if c.sampleRate > 0 {
		c.phase += twoPi * float64(c.frequency) / c.sampleRate * c.lfoPM
		for c.phase >= twoPi {
			c.phase -= twoPi
		}
	}

	for i := range c.op {
		c.op[i].StepEnvelope()
	}
	if !c.keyOn && c.allIdle() {
		return 0
	}

	// Operator-0 self-feedback: the average of its previous two outputs
	// scaled by the 3-bit depth.
	var fb float64
	if c.feedback > 0 {
		fb = (c.fbBuf[0] + c.fbBuf[1]) * 0.5 * float64(c.feedback) * 0.1
	}

	var out, out0 float64
	switch c.algorithm {
	case 0:
		out, out0 = c.evalAlgo0(fb)
	case 1:
		out, out0 = c.evalAlgo1(fb)
	case 2:
		out, out0 = c.evalAlgo2(fb)
	case 3:
		out, out0 = c.evalAlgo3(fb)
	case 4:
		out, out0 = c.evalAlgo4(fb)
	case 5:
		out, out0 = c.evalAlgo5(fb)
	case 6:
		out, out0 = c.evalAlgo6(fb)
	case 7:
		out, out0 = c.evalAlgo7(fb)
	}

	c.fbBuf[1] = c.fbBuf[0]
	c.fbBuf[0] = out0

	return out
}

// opEval evaluates one operator against the channel phase, applying the
// LFO amplitude modulation weighted by the operator's AM sensitivity.
func (c *Channel) opEval(i int, modulation float64) float64 {
	out := c.op[i].Output(c.phase, modulation)
	if ams := c.op[i].params.AMS; ams != 0 && c.lfoAM > 0 {
		out *= 1 - c.lfoAM*float64(ams)/3
	}
	return out
}

// Algorithm 0: op0 -> op1 -> op2 -> op3 (serial chain). op3 is the only
// carrier.
func (c *Channel) evalAlgo0(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, s0)
	s2 := c.opEval(2, s1)
	s3 := c.opEval(3, s2)
	return s3, s0
}

// Algorithm 1: op0 -> op1 -> op3; op2 straight out. Carriers op2, op3.
func (c *Channel) evalAlgo1(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, s0)
	s2 := c.opEval(2, 0)
	s3 := c.opEval(3, s1)
	return s2 + s3, s0
}

// Algorithm 2: op0 -> op2 -> op3; op1 straight out. Carriers op1, op3.
func (c *Channel) evalAlgo2(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, 0)
	s2 := c.opEval(2, s0)
	s3 := c.opEval(3, s2)
	return s1 + s3, s0
}

// Algorithm 3: op0 -> op2; op1 -> op3. Carriers op2, op3.
func (c *Channel) evalAlgo3(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, 0)
	s2 := c.opEval(2, s0)
	s3 := c.opEval(3, s1)
	return s2 + s3, s0
}

// Algorithm 4: op0 -> op1; op2 -> op3. Carriers op1, op3.
func (c *Channel) evalAlgo4(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, s0)
	s2 := c.opEval(2, 0)
	s3 := c.opEval(3, s2)
	return s1 + s3, s0
}

// Algorithm 5: op0 -> op1; op2 and op3 straight out. Carriers op1, op2,
// op3.
func (c *Channel) evalAlgo5(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, s0)
	s2 := c.opEval(2, 0)
	s3 := c.opEval(3, 0)
	return s1 + s2 + s3, s0
}

// Algorithm 6: op1 -> op2; op0 and op3 straight out. Carriers op0, op2,
// op3.
func (c *Channel) evalAlgo6(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, 0)
	s2 := c.opEval(2, s1)
	s3 := c.opEval(3, 0)
	return s0 + s2 + s3, s0
}

// Algorithm 7: all four operators straight out, all carriers.
func (c *Channel) evalAlgo7(fb float64) (float64, float64) {
	s0 := c.opEval(0, fb)
	s1 := c.opEval(1, 0)
	s2 := c.opEval(2, 0)
	s3 := c.opEval(3, 0)
	return s0 + s1 + s2 + s3, s0
}
