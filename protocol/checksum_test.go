package protocol

import "testing"

func TestSum8(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected uint8
	}{
		{"empty", []byte{}, 0},
		{"documented example", []byte{0x02, 0x1E, 0x00, 0x0A}, 0x2A},
		{"wraps", []byte{0xFF, 0x02}, 0x01},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFC},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sum8(tc.data); got != tc.expected {
				t.Errorf("Sum8(%v) = 0x%02X, expected 0x%02X", tc.data, got, tc.expected)
			}
		})
	}
}

func TestSum16(t *testing.T) {
	testCases := []struct {
		name     string
		words    []uint32
		expected uint16
	}{
		{"empty", nil, 0},
		{"small", []uint32{1, 2, 3}, 6},
		{"upper bits ignored", []uint32{0x00010001, 0x00020002}, 3},
		{"wraps", []uint32{0xFFFF, 0x0002}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sum16(tc.words); got != tc.expected {
				t.Errorf("Sum16(%v) = 0x%04X, expected 0x%04X", tc.words, got, tc.expected)
			}
		})
	}
}
