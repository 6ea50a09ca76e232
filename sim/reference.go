package sim

import "haptix/core"

// ReferenceCal is the simulated factory calibration code, taken with a
// 3.3 V supply
const ReferenceCal = 1525

// ReferenceCode returns the raw reference reading at a supply of
// supplyMicrovolts
func ReferenceCode(supplyMicrovolts uint32) uint16 {
	if supplyMicrovolts == 0 {
		return 0
	}
	return uint16(uint64(core.RefNominalMicrovolts) * ReferenceCal / uint64(supplyMicrovolts))
}

// NewReference creates a reference ring already filled for the supply
func NewReference(supplyMicrovolts uint32) *core.ReferenceRing {
	r := core.NewReferenceRing(ReferenceCal)
	FillReference(r, supplyMicrovolts)
	return r
}

// FillReference overwrites the whole ring with the code for the supply
func FillReference(r *core.ReferenceRing, supplyMicrovolts uint32) {
	code := ReferenceCode(supplyMicrovolts)
	for i := 0; i < core.RefSamples; i++ {
		r.Push(code)
	}
}
