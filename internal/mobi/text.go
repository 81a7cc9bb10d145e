package mobi

import (
	"log"
	"strings"
)

// recordSeparator joins the decompressed text of consecutive records.
const recordSeparator = "\n"

// TextRange returns the effective inclusive text record range. When the
// header omits the range or leaves it zero, every record after the header
// record is treated as text, clamped to the record table.
func TextRange(pdb *PDB, h *Header) (first, last int) {
	first = int(h.FirstTextRecord)
	last = int(h.LastTextRecord)

	if last == 0 {
		first = h.RecordIndex + 1
		last = pdb.NumRecords() - 1
		log.Printf("warning: mobi header has no text record range, assuming records %d..%d", first, last)
	}
	if first <= h.RecordIndex {
		first = h.RecordIndex + 1
	}
	if last > pdb.NumRecords()-1 {
		log.Printf("warning: mobi last text record %d clamped to %d", last, pdb.NumRecords()-1)
		last = pdb.NumRecords() - 1
	}
	return first, last
}

// ExtractText decompresses every text record and concatenates the results.
// A record whose decompression fails is salvaged byte-wise instead of
// aborting the parse; the returned string may be empty if nothing could be
// recovered.
func ExtractText(data []byte, pdb *PDB, h *Header) string {
	first, last := TextRange(pdb, h)

	var parts []string
	for i := first; i <= last; i++ {
		if i == h.RecordIndex {
			continue
		}
		rec := pdb.Record(data, i)
		if len(rec) == 0 {
			continue
		}

		decoded, err := Decompress(rec)
		if err != nil {
			log.Printf("warning: mobi record %d failed to decompress, salvaging raw bytes: %v", i, err)
			decoded = SalvageText(rec)
		}
		if len(decoded) > 0 {
			parts = append(parts, string(decoded))
		}
	}

	return strings.Join(parts, recordSeparator)
}

// SalvageText walks undecompressed record bytes and keeps what still reads
// as text: printable ASCII verbatim, CR/LF as newline, tab as space.
func SalvageText(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		switch {
		case b >= 32 && b <= 126:
			out = append(out, b)
		case b == '\r':
			out = append(out, '\n')
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
		case b == '\n':
			out = append(out, '\n')
		case b == '\t':
			out = append(out, ' ')
		}
	}
	return out
}
