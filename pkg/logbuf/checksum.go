package logbuf

import "fmt"

// Algorithm selects the checksum for framed messages.
//
// The two algorithms are not interchangeable: a producer and a
// consumer sharing a buffer (or a wire) must agree on one. CRC8 is
// the default as it is sensitive to byte order; XORFold is kept for
// peers which fold instead of dividing.
type Algorithm int

const (
	// CRC8 is CRC-8 with polynomial 0x07, MSB first, zero initial
	// value and no final XOR.
	CRC8 Algorithm = iota
	// XORFold XORs all payload bytes together.
	XORFold
)

const crc8Poly = 0x07

// Sum computes the 8-bit digest of data.
func (a Algorithm) Sum(data []byte) byte {
	if a == XORFold {
		var sum byte
		for _, b := range data {
			sum ^= b
		}
		return sum
	}
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crc8Poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case CRC8:
		return "crc8"
	case XORFold:
		return "xor"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "crc8", "":
		return CRC8, nil
	case "xor":
		return XORFold, nil
	}
	return CRC8, fmt.Errorf("unknown checksum algorithm %q", name)
}
