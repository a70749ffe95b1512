// ym2151scale renders one octave of a C major scale to a WAV file,
// driving the chip's frequency registers from MIDI note numbers.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	ym2151 "github.com/user-none/go-chip-ym2151"
	"github.com/user-none/go-chip-ym2151/wav"
)

// scale is C4 through C5 in MIDI note numbers.
var scale = []int{60, 62, 64, 65, 67, 69, 71, 72}

// noteFrequency returns the equal-tempered frequency in Hz for a MIDI
// note number (69 = A4 = 440 Hz).
func noteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// programPiano sets up algorithm 4 with a faster carrier decay than the
// plain tone patch so consecutive notes stay distinct.
func programPiano(chip *ym2151.Chip, ch uint8) {
	chip.SetRegister(0x20+ch, 4) // algorithm 4, feedback 0

	ops := []struct{ op, tl, dr uint8 }{
		{0, 0x7F, 0x00},
		{1, 0x00, 0x08},
		{2, 0x7F, 0x00},
		{3, 0x00, 0x08},
	}
	for _, o := range ops {
		base := o.op << 3
		chip.SetRegister(0x40|base|ch, 0x01) // DT1=0, MUL=1
		chip.SetRegister(0x60|base|ch, o.tl) // TL
		chip.SetRegister(0x80|base|ch, 0x1F) // KS=0, AR=31
		chip.SetRegister(0xA0|base|ch, o.dr) // AMS=0, DR
		chip.SetRegister(0xC0|base|ch, 0x08) // DT2=0, SR=8
		chip.SetRegister(0xE0|base|ch, 0x0F) // SL=0, RR=15
	}
}

func main() {
	noteLen := flag.Float64("note", 0.5, "seconds per note")
	rate := flag.Int("rate", 44100, "output sample rate")
	out := flag.String("out", "ym2151_scale.wav", "output WAV path")
	flag.Parse()

	chip := ym2151.New(ym2151.DefaultClock)
	chip.SetSampleRate(*rate)

	const ch = 0
	programPiano(chip, ch)

	perNote := int(float64(*rate) * *noteLen)
	held := perNote * 8 / 10 // key the note for 80%, release for 20%

	samples := make([]float32, 0, perNote*len(scale))
	buf := make([]float32, perNote)
	for _, note := range scale {
		word := uint16(noteFrequency(note))
		chip.SetRegister(0x10+ch, uint8(word))
		chip.SetRegister(0x18+ch, uint8(word>>8))

		chip.SetRegister(0x08, 0x80|ch)
		chip.Generate(buf[:held])
		chip.SetRegister(0x08, ch)
		chip.Generate(buf[held:])
		samples = append(samples, buf...)
	}

	if err := os.WriteFile(*out, wav.Encode16(samples, *rate, 1), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %s: %d notes, %.1fs each", *out, len(scale), *noteLen)
}
