package digits

import (
	"encoding/binary"
)

// FromBytes converts big-endian bytes into a digit array of
// ceil(len(b)/8) digits. Empty input yields a single zero digit.
func FromBytes(b []byte) Digits {
	n := (len(b) + 7) / 8
	if n == 0 {
		return Digits{0}
	}
	d := make(Digits, n)
	for i := 0; i < len(b); i++ {
		d[i/8] |= uint64(b[len(b)-1-i]) << (8 * (i % 8))
	}
	return d
}

// ToBytes converts d into big-endian bytes.
//
// With trim set, leading zero bytes are removed. A positive minLen trims
// leading zeros down to minLen bytes and zero pads shorter results up to
// it, so values that fit are returned at exactly that width. The result is
// never empty.
func ToBytes(d Digits, trim bool, minLen int) []byte {
	full := make([]byte, len(d)*8)
	for i, w := range d {
		binary.BigEndian.PutUint64(full[len(full)-8*(i+1):], w)
	}

	start := 0
	switch {
	case trim:
		for start < len(full) && full[start] == 0 {
			start++
		}
	case minLen > 0:
		for start < len(full)-minLen && full[start] == 0 {
			start++
		}
	}
	out := full[start:]
	if len(out) < minLen {
		padded := make([]byte, minLen)
		copy(padded[minLen-len(out):], out)
		out = padded
	}
	if len(out) == 0 {
		return []byte{0}
	}
	return out
}
