package ym2151

import (
	"math"
	"testing"
)

func TestOperator_ResetDefaults(t *testing.T) {
	var o Operator
	o.Reset()

	p := o.Params()
	if p.TL != 127 || p.MUL != 1 || p.AR != 31 || p.RR != 15 {
		t.Errorf("defaults: TL=%d MUL=%d AR=%d RR=%d", p.TL, p.MUL, p.AR, p.RR)
	}
	if p.DT1 != 0 || p.DT2 != 0 || p.KS != 0 || p.DR != 0 || p.SR != 0 || p.SL != 0 {
		t.Error("non-zero default in a field that should reset to 0")
	}
	if o.Stage() != EGIdle || o.Level() != 0 || o.phase != 0 {
		t.Errorf("state: stage=%d level=%v phase=%v", o.Stage(), o.Level(), o.phase)
	}
}

func TestOperator_KeyOnInstantAttack(t *testing.T) {
	var o Operator
	o.Reset() // AR=31

	o.KeyOn()
	if o.Stage() != EGDecay {
		t.Errorf("stage: expected decay, got %d", o.Stage())
	}
	if o.Level() != 1 {
		t.Errorf("level: expected 1, got %v", o.Level())
	}
}

func TestOperator_AttackProgression(t *testing.T) {
	var o Operator
	o.Reset()
	p := o.Params()
	p.AR = 10
	o.SetParams(p)

	o.KeyOn()
	if o.Stage() != EGAttack {
		t.Fatalf("stage: expected attack, got %d", o.Stage())
	}

	prev := o.Level()
	steps := 0
	for o.Stage() == EGAttack && steps < 10000 {
		o.StepEnvelope()
		if o.Level() < prev {
			t.Fatalf("level fell during attack: %v -> %v", prev, o.Level())
		}
		prev = o.Level()
		steps++
	}
	if o.Stage() != EGDecay {
		t.Errorf("expected decay after attack, got stage %d", o.Stage())
	}
	if o.Level() <= 0.99 || o.Level() > 1 {
		t.Errorf("level at decay entry: %v", o.Level())
	}
}

func TestOperator_DecayToSustain(t *testing.T) {
	var o Operator
	o.Reset()
	p := o.Params()
	p.DR = 31
	p.SL = 8
	o.SetParams(p)

	o.KeyOn() // instant attack, level 1, decay
	threshold := 1 - float64(p.SL)/15

	steps := 0
	for o.Stage() == EGDecay && steps < 10000 {
		o.StepEnvelope()
		steps++
	}
	if o.Stage() != EGSustain {
		t.Fatalf("expected sustain, got stage %d", o.Stage())
	}
	if o.Level() > threshold {
		t.Errorf("level %v above sustain threshold %v", o.Level(), threshold)
	}
}

func TestOperator_ReleaseTerminates(t *testing.T) {
	var o Operator
	o.Reset()
	p := o.Params()
	p.RR = 1 // slowest audible release
	o.SetParams(p)

	o.KeyOn()
	o.KeyOff()
	if o.Stage() != EGRelease {
		t.Fatalf("expected release, got stage %d", o.Stage())
	}

	steps := 0
	for o.Stage() == EGRelease && steps < 100000 {
		o.StepEnvelope()
		steps++
	}
	if o.Stage() != EGIdle {
		t.Fatalf("release never terminated (level %v after %d steps)", o.Level(), steps)
	}
	if o.Level() != 0 {
		t.Errorf("level at idle: expected 0, got %v", o.Level())
	}
}

func TestOperator_KeyOffWhileIdle(t *testing.T) {
	var o Operator
	o.Reset()

	o.KeyOff()
	if o.Stage() != EGIdle {
		t.Errorf("key-off on idle operator: expected idle, got %d", o.Stage())
	}
}

func TestOperator_LevelBounds(t *testing.T) {
	var o Operator
	o.Reset()
	p := o.Params()
	p.AR = 20
	p.DR = 31
	p.SR = 31
	p.SL = 15
	o.SetParams(p)

	o.KeyOn()
	for i := 0; i < 50000; i++ {
		o.StepEnvelope()
		if l := o.Level(); l < 0 || l > 1 {
			t.Fatalf("level out of [0,1] at step %d: %v", i, l)
		}
		if i == 25000 {
			o.KeyOff()
		}
	}
}

func TestOperator_OutputBoundedByLevel(t *testing.T) {
	var o Operator
	o.Reset()
	p := o.Params()
	p.TL = 0
	o.SetParams(p)
	o.level = 0.6

	for _, phase := range []float64{0, 0.5, 1.7, 3.9, 6.2} {
		for _, mod := range []float64{0, -3.2, 1.1, 100.5} {
			out := o.Output(phase, mod)
			if math.Abs(out) > 0.6+1e-12 {
				t.Errorf("output %v exceeds level 0.6 (phase %v mod %v)", out, phase, mod)
			}
		}
	}
}

func TestOperator_TotalLevelAttenuation(t *testing.T) {
	var o Operator
	o.Reset()
	o.level = 1

	p := o.Params()
	p.TL = 127
	o.SetParams(p)
	if out := o.Output(math.Pi/2, 0); out != 0 {
		t.Errorf("TL=127 should silence the operator, got %v", out)
	}

	p.TL = 0
	o.SetParams(p)
	if out := o.Output(math.Pi/2, 0); math.Abs(out-1) > 0.01 {
		t.Errorf("TL=0 at sine peak: expected ~1, got %v", out)
	}
}

func TestOperator_MultiplierZeroMeansHalf(t *testing.T) {
	var o Operator
	o.Reset()
	o.level = 1
	p := o.Params()
	p.TL = 0
	p.MUL = 0
	o.SetParams(p)

	// MUL=0 halves the phase: pi in becomes pi/2, the sine peak.
	if out := o.Output(math.Pi, 0); math.Abs(out-1) > 0.01 {
		t.Errorf("MUL=0 at phase pi: expected ~1, got %v", out)
	}

	p.MUL = 1
	o.SetParams(p)
	if out := o.Output(math.Pi, 0); math.Abs(out) > 0.01 {
		t.Errorf("MUL=1 at phase pi: expected ~0, got %v", out)
	}
}

func TestOperator_DetuneOffsetsPhase(t *testing.T) {
	var o Operator
	o.Reset()
	o.level = 1
	p := o.Params()
	p.TL = 0
	o.SetParams(p)

	if out := o.Output(0, 0); out != 0 {
		t.Fatalf("no detune at phase 0: expected exactly 0, got %v", out)
	}

	p.DT1 = 1
	o.SetParams(p)
	if out := o.Output(0, 0); out == 0 {
		t.Error("DT1=1 should shift the lookup off the zero crossing")
	}
}

func TestOperator_PhaseNormalized(t *testing.T) {
	var o Operator
	o.Reset()
	o.level = 1

	for _, mod := range []float64{-50, -6.3, 0, 6.3, 1000} {
		o.Output(5.9, mod)
		if o.phase < 0 || o.phase >= twoPi {
			t.Errorf("phase %v outside [0, 2pi) after mod %v", o.phase, mod)
		}
	}
}
