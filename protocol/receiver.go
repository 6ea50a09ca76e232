package protocol

import "sync/atomic"

// ReceiverState is the command receiver's reception state
type ReceiverState uint32

const (
	StateIdle          ReceiverState = 0 // Not armed; incoming bytes are dropped
	StateAwaitingFrame ReceiverState = 1 // Armed; bytes fill the receive window
)

// FrameSink receives every structurally valid command frame
type FrameSink func(f CommandFrame)

// RejectHandler is told why a completed window was discarded
type RejectHandler func(err error)

// Receiver implements receive-to-idle reception of command frames.
//
// The UART interrupt feeds bytes with Feed and signals the idle line with
// LineIdle. A window completes either when it fills or when the line goes
// idle with at least one byte received. Completion decodes the window,
// hands a valid frame to the sink and re-arms, dropping any partial data,
// so at most one frame is ever buffered.
//
// Feed, LineIdle and Arm must all be called from the same interrupt
// context; only State and Pending are safe to call from elsewhere.
type Receiver struct {
	state   uint32 // atomic ReceiverState
	pending uint32 // atomic byte count in the current window
	window  [RxWindowSize]byte

	sink   FrameSink
	reject RejectHandler
}

// NewReceiver creates an idle receiver delivering frames to sink
func NewReceiver(sink FrameSink) *Receiver {
	return &Receiver{sink: sink}
}

// SetRejectHandler installs a callback for discarded windows
func (r *Receiver) SetRejectHandler(h RejectHandler) {
	r.reject = h
}

// Arm starts a fresh receive window, discarding any partial frame
func (r *Receiver) Arm() {
	for i := range r.window {
		r.window[i] = 0
	}
	atomic.StoreUint32(&r.pending, 0)
	atomic.StoreUint32(&r.state, uint32(StateAwaitingFrame))
}

// Disarm returns to Idle; bytes received while idle are dropped
func (r *Receiver) Disarm() {
	atomic.StoreUint32(&r.state, uint32(StateIdle))
	atomic.StoreUint32(&r.pending, 0)
}

// State returns the current reception state
func (r *Receiver) State() ReceiverState {
	return ReceiverState(atomic.LoadUint32(&r.state))
}

// Pending returns how many bytes the current window holds
func (r *Receiver) Pending() int {
	return int(atomic.LoadUint32(&r.pending))
}

// Feed appends received bytes to the window
func (r *Receiver) Feed(data []byte) {
	for _, b := range data {
		if r.State() != StateAwaitingFrame {
			return
		}

		n := atomic.LoadUint32(&r.pending)
		r.window[n] = b
		n++
		atomic.StoreUint32(&r.pending, n)

		if n == RxWindowSize {
			r.complete()
		}
	}
}

// LineIdle signals that the line went idle after some bytes were received
func (r *Receiver) LineIdle() {
	if r.State() != StateAwaitingFrame || r.Pending() == 0 {
		return
	}
	r.complete()
}

func (r *Receiver) complete() {
	f, err := DecodeCommand(r.window[:r.Pending()])
	if err != nil {
		if r.reject != nil {
			r.reject(err)
		}
	} else if r.sink != nil {
		r.sink(f)
	}

	// Re-arm regardless of outcome; stale partial bytes never carry over
	r.Arm()
}
