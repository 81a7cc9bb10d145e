package mobi

import "bytes"

// Image payload signatures recognized by the cover scan.
var imageMagics = []struct {
	prefix    []byte
	mediaType string
}{
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{[]byte("GIF87a"), "image/gif"},
	{[]byte("GIF89a"), "image/gif"},
}

// CoverImage scans the records after the text range for an image payload
// and returns the first one found with its media type. This is the
// trivially-recoverable case only; covers that require decoding the EXTH
// block are not found.
func CoverImage(data []byte, pdb *PDB, h *Header) ([]byte, string, bool) {
	_, last := TextRange(pdb, h)

	for i := last + 1; i < pdb.NumRecords(); i++ {
		rec := pdb.Record(data, i)
		if mediaType, ok := sniffImage(rec); ok {
			return rec, mediaType, true
		}
	}
	return nil, "", false
}

func sniffImage(rec []byte) (string, bool) {
	for _, m := range imageMagics {
		if bytes.HasPrefix(rec, m.prefix) {
			return m.mediaType, true
		}
	}
	return "", false
}
