//go:build portaudio

package audio

import "github.com/gordonklaus/portaudio"

const streamFrames = 256

// Player streams mono float32 samples through the default portaudio
// output device using the blocking stream API.
type Player struct {
	stream *portaudio.Stream
	ring   *RingBuffer
	out    []float32
}

// NewPlayer initializes portaudio and opens the default output stream
// at the given rate with bufferSamples of queueing between the
// generator and the device.
func NewPlayer(sampleRate, bufferSamples int) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	out := make([]float32, streamFrames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), &out)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	p := &Player{
		stream: stream,
		ring:   NewRingBuffer(bufferSamples),
		out:    out,
	}
	go p.pump()
	return p, nil
}

// pump moves samples from the ring buffer into the blocking stream
// until the ring buffer is closed.
func (p *Player) pump() {
	for {
		n := p.ring.ReadSamples(p.out)
		if n == 0 {
			return
		}
		for i := n; i < len(p.out); i++ {
			p.out[i] = 0
		}
		if err := p.stream.Write(); err != nil {
			return
		}
	}
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

// Close stops playback and shuts portaudio down.
func (p *Player) Close() error {
	p.ring.Close()
	err := p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	return err
}
