package mobi

import "fmt"

// maxRecordOutput caps the decompressed size of a single record. The byte
// grammar below expands input at most threefold, so a well-formed 4096-byte
// record can never reach this; the cap bounds adversarial inputs.
const maxRecordOutput = 64 * 1024

// Decompress applies the PalmDoc byte grammar used by legacy MOBI readers
// to a single record:
//
//	0x00        -> a single space (this reader's NUL treatment)
//	0x01..0x08  -> literal run: copy that many raw bytes from the input
//	0x09..0x7F  -> literal byte
//	0x80..0xBF  -> space followed by the low 7 bits as a literal byte
//	0xC0..0xFF  -> back reference: with the next byte b2,
//	               distance = ((b & 0x3F) << 8) | b2
//	               length   = ((b2 >> 6) & 0x03) + 3
//
// Back references copy byte by byte so overlapping copies replicate, and
// the read position is clamped to the written output. Decompression is
// deterministic and pure.
func Decompress(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)*2)
	i := 0

	for i < len(src) {
		if len(out) > maxRecordOutput {
			return nil, fmt.Errorf("mobi: decompressed record exceeds %d bytes", maxRecordOutput)
		}

		b := src[i]
		switch {
		case b == 0x00:
			out = append(out, ' ')
			i++

		case b <= 0x08:
			n := int(b)
			if i+1+n > len(src) {
				return nil, fmt.Errorf("mobi: literal run of %d bytes overruns record at offset %d", n, i)
			}
			out = append(out, src[i+1:i+1+n]...)
			i += 1 + n

		case b <= 0x7F:
			out = append(out, b)
			i++

		case b <= 0xBF:
			out = append(out, ' ', b&0x7F)
			i++

		default:
			if i+1 >= len(src) {
				return nil, fmt.Errorf("mobi: back reference missing second byte at offset %d", i)
			}
			b2 := src[i+1]
			distance := int(b&0x3F)<<8 | int(b2)
			length := int(b2>>6)&0x03 + 3

			pos := len(out) - distance
			if pos < 0 {
				pos = 0
			}
			for j := 0; j < length; j++ {
				if pos >= len(out) {
					break
				}
				out = append(out, out[pos])
				pos++
			}
			i += 2
		}
	}

	return out, nil
}

// Compress encodes data so that Decompress reproduces it exactly. It is
// the reference encoder for the grammar above, used to build fixtures and
// exercise the round-trip law. Bytes outside the literal range, NUL
// included, travel inside raw literal runs and decode verbatim.
func Compress(data []byte) []byte {
	out := make([]byte, 0, len(data))
	i := 0

	for i < len(data) {
		if d, l := findBackRef(data, i); l > 0 {
			out = append(out, 0xC0|byte(d>>8), byte(d&0xFF))
			i += l
			continue
		}

		b := data[i]
		switch {
		case b == ' ' && i+1 < len(data) && data[i+1] >= 0x09 && data[i+1] <= 0x3F:
			// Compound form: space plus a low literal in one byte.
			out = append(out, 0x80|data[i+1])
			i += 2

		case b >= 0x09 && b <= 0x7F:
			out = append(out, b)
			i++

		default:
			// Bytes outside the literal range go into a raw run of up to 8.
			start := i
			for i < len(data) && i-start < 8 {
				c := data[i]
				if c >= 0x09 && c <= 0x7F {
					break
				}
				i++
			}
			out = append(out, byte(i-start))
			out = append(out, data[start:i]...)
		}
	}

	return out
}

// findBackRef searches the window behind pos for a copy the back-reference
// form can express. The second byte of the pair is both the low 8 bits of
// the distance and the length selector, so each candidate distance admits
// exactly one copy length.
func findBackRef(data []byte, pos int) (distance, length int) {
	maxDist := pos
	if maxDist > 0x3FFF {
		maxDist = 0x3FFF
	}

	best := 0
	bestDist := 0
	for d := 1; d <= maxDist; d++ {
		l := (d>>6)&0x03 + 3
		if pos+l > len(data) || l <= best {
			continue
		}
		// Mirror the decoder: the source position may run into bytes
		// produced earlier in this same copy.
		match := true
		for j, p := 0, pos-d; j < l; j, p = j+1, p+1 {
			if data[p] != data[pos+j] {
				match = false
				break
			}
		}
		if match {
			best = l
			bestDist = d
			if best == 6 {
				break
			}
		}
	}

	return bestDist, best
}
