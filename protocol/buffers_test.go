package protocol

import "testing"

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Error("New FIFO should be empty")
	}

	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}
	if fifo.Free() != 4 {
		t.Errorf("Expected 4 bytes free, got %d", fifo.Free())
	}

	fifo.Pop(3)
	data := fifo.Data()
	if len(data) != 2 || data[0] != 4 || data[1] != 5 {
		t.Errorf("After popping 3, got %v", data)
	}

	// Popping past the end stops at empty
	fifo.Pop(10)
	if fifo.Available() != 0 {
		t.Errorf("Expected empty FIFO, got %d available", fifo.Available())
	}

	fifo.Reset()
	bigData := make([]byte, 12)
	if written = fifo.Write(bigData); written != 9 {
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(2)

	if written := fifo.Write([]byte{5, 6}); written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	// Data must stitch both segments together
	data := fifo.Data()
	if len(data) != 4 || data[0] != 3 || data[1] != 4 || data[2] != 5 || data[3] != 6 {
		t.Errorf("Wrapped Data() mismatch: got %v", data)
	}

	fifo.Pop(4)
	if fifo.Available() != 0 {
		t.Errorf("Expected empty FIFO after popping all, got %d", fifo.Available())
	}
}
