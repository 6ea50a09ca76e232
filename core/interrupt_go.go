//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// maskLock stands in for the interrupt mask on regular Go, where the
// simulator runs tick and UART handlers as goroutines. Masked sections
// never nest.
var maskLock sync.Mutex

// disableInterrupts enters the masked section
func disableInterrupts() State {
	maskLock.Lock()
	return 0
}

// restoreInterrupts leaves the masked section
func restoreInterrupts(state State) {
	maskLock.Unlock()
}
