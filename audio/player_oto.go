//go:build !portaudio

package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process, so it is created once and reused.
var (
	otoCtx  *oto.Context
	otoOnce sync.Once
	otoErr  error
)

func otoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(op)
		if otoErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoErr
}

// sampleReader adapts the ring buffer to the io.Reader oto pulls from,
// encoding each sample as a little-endian float32.
type sampleReader struct {
	ring    *RingBuffer
	scratch []float32
}

func (r *sampleReader) Read(p []byte) (int, error) {
	want := len(p) / 4
	if want == 0 {
		return 0, nil
	}
	if cap(r.scratch) < want {
		r.scratch = make([]float32, want)
	}
	n := r.ring.ReadSamples(r.scratch[:want])
	if n == 0 {
		return 0, io.EOF
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.scratch[i]))
	}
	return n * 4, nil
}

// Player streams mono float32 samples to the default output device.
type Player struct {
	player *oto.Player
	ring   *RingBuffer
}

// NewPlayer opens the output device with bufferSamples of queueing
// between the generator and the device. The device context is created
// at the rate of the first call; later calls reuse it and their
// sampleRate is not applied.
func NewPlayer(sampleRate, bufferSamples int) (*Player, error) {
	ctx, err := otoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	ring := NewRingBuffer(bufferSamples)
	p := &Player{
		player: ctx.NewPlayer(&sampleReader{ring: ring}),
		ring:   ring,
	}
	p.player.Play()
	return p, nil
}

// Write queues samples for playback. Non-blocking; use Buffered to pace
// the generator.
func (p *Player) Write(samples []float32) {
	p.ring.Write(samples)
}

// Buffered returns the number of samples queued but not yet consumed.
func (p *Player) Buffered() int {
	return p.ring.Len()
}

// Close stops playback and releases the device player. The shared
// context stays open for later players.
func (p *Player) Close() error {
	p.ring.Close()
	return p.player.Close()
}
