// ym2151play plays an FM tone through the default audio device.
// Generation runs well ahead of realtime, so the loop paces itself
// against the player's queue depth.
package main

import (
	"flag"
	"log"
	"time"

	ym2151 "github.com/user-none/go-chip-ym2151"
	"github.com/user-none/go-chip-ym2151/audio"
)

const chunkSamples = 1024

func main() {
	freq := flag.Float64("freq", 440, "tone frequency in Hz")
	dur := flag.Float64("dur", 2, "total seconds to play; key-off at the halfway point")
	rate := flag.Int("rate", 44100, "output sample rate")
	flag.Parse()

	chip := ym2151.New(ym2151.DefaultClock)
	chip.SetSampleRate(*rate)

	// Algorithm 7, single full-level carrier on op3.
	const ch = 0
	chip.SetRegister(0x20+ch, 7)
	for op := uint8(0); op < 4; op++ {
		base := op << 3
		tl := uint8(0x7F)
		if op == 3 {
			tl = 0
		}
		chip.SetRegister(0x40|base|ch, 0x01) // DT1=0, MUL=1
		chip.SetRegister(0x60|base|ch, tl)
		chip.SetRegister(0x80|base|ch, 0x1F) // KS=0, AR=31
		chip.SetRegister(0xA0|base|ch, 0x00) // AMS=0, DR=0
		chip.SetRegister(0xC0|base|ch, 0x00) // DT2=0, SR=0
		chip.SetRegister(0xE0|base|ch, 0x0F) // SL=0, RR=15
	}

	word := uint16(*freq)
	chip.SetRegister(0x10+ch, uint8(word))
	chip.SetRegister(0x18+ch, uint8(word>>8))

	player, err := audio.NewPlayer(*rate, *rate/2)
	if err != nil {
		log.Fatalf("Failed to open audio output: %v", err)
	}
	defer player.Close()

	chip.SetRegister(0x08, 0x80|ch)
	log.Printf("Playing %.1f Hz for %.1fs", *freq, *dur)

	buf := make([]float32, chunkSamples)
	total := int(float64(*rate) * *dur)
	keyOff := total / 2

	for done := 0; done < total; done += len(buf) {
		// Keep roughly a quarter second queued ahead of the device.
		for player.Buffered() > *rate/4 {
			time.Sleep(10 * time.Millisecond)
		}
		if done >= keyOff && done-len(buf) < keyOff {
			chip.SetRegister(0x08, ch)
		}
		chip.Generate(buf)
		player.Write(buf)
	}

	// Drain what is still queued before closing the device.
	for player.Buffered() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
}
