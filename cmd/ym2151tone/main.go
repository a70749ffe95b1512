// ym2151tone renders a single FM tone to a WAV file: a two-stack
// electric-piano style patch on channel 0, keyed on at the start and
// released partway through.
package main

import (
	"flag"
	"log"
	"os"

	ym2151 "github.com/user-none/go-chip-ym2151"
	"github.com/user-none/go-chip-ym2151/wav"
)

// programTone sets up algorithm 4 (op0->op1, op2->op3) on the channel:
// quiet modulators with no decay, full-level carriers with a slow
// decay and the fastest release.
func programTone(chip *ym2151.Chip, ch uint8) {
	chip.SetRegister(0x20+ch, 4) // algorithm 4, feedback 0

	ops := []struct{ op, tl, dr, sr uint8 }{
		{0, 0x7F, 0x00, 0x00},
		{1, 0x00, 0x05, 0x05},
		{2, 0x7F, 0x00, 0x00},
		{3, 0x00, 0x05, 0x05},
	}
	for _, o := range ops {
		base := o.op << 3
		chip.SetRegister(0x40|base|ch, 0x01) // DT1=0, MUL=1
		chip.SetRegister(0x60|base|ch, o.tl) // TL
		chip.SetRegister(0x80|base|ch, 0x1F) // KS=0, AR=31
		chip.SetRegister(0xA0|base|ch, o.dr) // AMS=0, DR
		chip.SetRegister(0xC0|base|ch, o.sr) // DT2=0, SR
		chip.SetRegister(0xE0|base|ch, 0x0F) // SL=0, RR=15
	}
}

func main() {
	freq := flag.Float64("freq", 440, "tone frequency in Hz")
	dur := flag.Float64("dur", 3, "total length in seconds")
	hold := flag.Float64("hold", 1, "seconds before key-off")
	rate := flag.Int("rate", 44100, "output sample rate")
	out := flag.String("out", "ym2151_tone.wav", "output WAV path")
	flag.Parse()

	chip := ym2151.New(ym2151.DefaultClock)
	chip.SetSampleRate(*rate)

	const ch = 0
	programTone(chip, ch)

	// The frequency register pair carries the pitch in Hz directly.
	word := uint16(*freq)
	chip.SetRegister(0x10+ch, uint8(word))
	chip.SetRegister(0x18+ch, uint8(word>>8))

	chip.SetRegister(0x08, 0x80|ch) // key on

	total := int(float64(*rate) * *dur)
	keyOff := int(float64(*rate) * *hold)
	if keyOff > total {
		keyOff = total
	}

	samples := make([]float32, total)
	chip.Generate(samples[:keyOff])
	chip.SetRegister(0x08, ch) // key off, let the release ring out
	chip.Generate(samples[keyOff:])

	if err := os.WriteFile(*out, wav.Encode16(samples, *rate, 1), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %s: %.1fs at %d Hz", *out, *dur, *rate)
}
