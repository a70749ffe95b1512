package audio

import (
	"testing"
	"time"
)

func TestRingBuffer_WriteRead(t *testing.T) {
	rb := NewRingBuffer(16)
	rb.Write([]float32{1, 2, 3, 4, 5})

	out := make([]float32, 5)
	n := rb.ReadSamples(out)
	if n != 5 {
		t.Fatalf("read count: expected 5, got %d", n)
	}
	for i, want := range []float32{1, 2, 3, 4, 5} {
		if out[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, out[i])
		}
	}
	if rb.Len() != 0 {
		t.Errorf("length after drain: expected 0, got %d", rb.Len())
	}
}

func TestRingBuffer_PartialRead(t *testing.T) {
	rb := NewRingBuffer(16)
	rb.Write([]float32{1, 2, 3, 4})

	out := make([]float32, 2)
	if n := rb.ReadSamples(out); n != 2 {
		t.Fatalf("first read: expected 2, got %d", n)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Errorf("first read values: got %v", out)
	}
	if n := rb.ReadSamples(out); n != 2 {
		t.Fatalf("second read: expected 2, got %d", n)
	}
	if out[0] != 3 || out[1] != 4 {
		t.Errorf("second read values: got %v", out)
	}
}

func TestRingBuffer_OverflowDropsOldest(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1, 2, 3, 4})
	rb.Write([]float32{5, 6})

	out := make([]float32, 4)
	if n := rb.ReadSamples(out); n != 4 {
		t.Fatalf("read count: expected 4, got %d", n)
	}
	for i, want := range []float32{3, 4, 5, 6} {
		if out[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, out[i])
		}
	}
}

func TestRingBuffer_WriteLargerThanCapacity(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1, 2, 3, 4, 5, 6})

	out := make([]float32, 4)
	rb.ReadSamples(out)
	for i, want := range []float32{3, 4, 5, 6} {
		if out[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, out[i])
		}
	}
}

func TestRingBuffer_ReadBlocksUntilWrite(t *testing.T) {
	rb := NewRingBuffer(8)
	done := make(chan float32, 1)

	go func() {
		out := make([]float32, 1)
		rb.ReadSamples(out)
		done <- out[0]
	}()

	time.Sleep(20 * time.Millisecond)
	rb.Write([]float32{7})

	select {
	case got := <-done:
		if got != 7 {
			t.Errorf("blocked read: expected 7, got %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("read did not wake after write")
	}
}

func TestRingBuffer_CloseWakesReader(t *testing.T) {
	rb := NewRingBuffer(8)
	done := make(chan int, 1)

	go func() {
		done <- rb.ReadSamples(make([]float32, 4))
	}()

	time.Sleep(20 * time.Millisecond)
	rb.Close()

	select {
	case n := <-done:
		if n != 0 {
			t.Errorf("read after close: expected 0, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("read did not wake after close")
	}
}

func TestRingBuffer_WriteAfterCloseDiscarded(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Close()
	rb.Write([]float32{1, 2})
	if rb.Len() != 0 {
		t.Errorf("write after close queued %d samples", rb.Len())
	}
}

func TestRingBuffer_DrainAfterClose(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]float32{1, 2, 3})
	rb.Close()

	out := make([]float32, 8)
	if n := rb.ReadSamples(out); n != 3 {
		t.Errorf("drain after close: expected 3, got %d", n)
	}
	if n := rb.ReadSamples(out); n != 0 {
		t.Errorf("second read after close: expected 0, got %d", n)
	}
}

func TestRingBuffer_WrapAround(t *testing.T) {
	rb := NewRingBuffer(4)
	out := make([]float32, 2)

	rb.Write([]float32{1, 2, 3})
	rb.ReadSamples(out) // readPos now 2
	rb.Write([]float32{4, 5, 6})

	got := make([]float32, 4)
	if n := rb.ReadSamples(got); n != 4 {
		t.Fatalf("read count: expected 4, got %d", n)
	}
	for i, want := range []float32{3, 4, 5, 6} {
		if got[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, got[i])
		}
	}
}
