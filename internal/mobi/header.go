package mobi

import (
	"bytes"
	"log"
)

const (
	// EncodingUTF8 is the MOBI encoding code for UTF-8 text.
	EncodingUTF8 uint32 = 65001

	// headerMinLength is the smallest declared header length accepted.
	headerMinLength = 16

	// headerOptionalLength is the declared length required before any of
	// the optional fields (title, author, language, text range) exist.
	headerOptionalLength = 0x70
)

// Field offsets within the header record, relative to the MOBI magic.
const (
	offDeclaredLength = 0x04
	offMobiType       = 0x08
	offTextEncoding   = 0x0C
	offUniqueID       = 0x10
	offFileVersion    = 0x14
	offTitle          = 0x38
	offAuthor         = 0x3C
	offLanguage       = 0x44
	offFirstText      = 0x68
	offLastText       = 0x6C
)

var mobiMagic = []byte("MOBI")

// Header holds the fields parsed from the MOBI header record. Optional
// fields are zero when the declared length is too small to contain them.
//
// Title and author offsets are absolute positions in the file buffer,
// packed with their lengths into single uint32 words (offset in the high
// 16 bits, length in the low 16).
type Header struct {
	RecordIndex    int
	DeclaredLength uint32

	MobiType     uint32
	TextEncoding uint32
	UniqueID     uint32
	FileVersion  uint32

	TitleOffset  uint32
	TitleLength  uint32
	AuthorOffset uint32
	AuthorLength uint32

	LanguageCode    uint32
	FirstTextRecord uint32
	LastTextRecord  uint32
}

// LocateHeader scans the record table for the record whose first four
// bytes are the MOBI magic. Real-world files do not reliably place the
// header at record 0, so every record is inspected in table order.
func LocateHeader(data []byte, pdb *PDB) (int, error) {
	for i := 0; i < pdb.NumRecords(); i++ {
		start, end := pdb.RecordSpan(i)
		if end-start < len(mobiMagic) {
			continue
		}
		if bytes.Equal(data[start:start+len(mobiMagic)], mobiMagic) {
			return i, nil
		}
	}
	return 0, formatErr(ErrHeaderNotFound, -1, -1, "")
}

// ParseHeader extracts the MOBI header fields from the given record.
// Structural problems (bad identifier, out-of-range declared length) are
// fatal; reads beyond the declared length degrade to zero with a warning.
func ParseHeader(data []byte, pdb *PDB, record int) (*Header, error) {
	start, end := pdb.RecordSpan(record)
	rec := data[start:end]

	if len(rec) < 8 || !bytes.Equal(rec[:len(mobiMagic)], mobiMagic) {
		return nil, formatErr(ErrBadIdentifier, start, record, "")
	}

	c := newCursor(rec)
	declared, _ := c.uint32At(offDeclaredLength)
	if declared < headerMinLength || int(declared) > len(rec) {
		return nil, formatErr(ErrBadHeaderLength, start+offDeclaredLength, record, "")
	}

	h := &Header{
		RecordIndex:    record,
		DeclaredLength: declared,
	}

	// The parser must never read past the declared length, even when the
	// record itself is longer.
	bounded := newCursor(rec[:declared])

	h.MobiType = optionalField(bounded, offMobiType, declared, "mobiType")
	h.TextEncoding = optionalField(bounded, offTextEncoding, declared, "textEncoding")
	h.UniqueID = optionalField(bounded, offUniqueID, declared, "uniqueId")
	h.FileVersion = optionalField(bounded, offFileVersion, declared, "fileVersion")

	if declared >= headerOptionalLength {
		title := optionalField(bounded, offTitle, declared, "title")
		h.TitleOffset, h.TitleLength = unpackOffsetLength(title)

		author := optionalField(bounded, offAuthor, declared, "author")
		h.AuthorOffset, h.AuthorLength = unpackOffsetLength(author)

		h.LanguageCode = optionalField(bounded, offLanguage, declared, "language")
		h.FirstTextRecord = optionalField(bounded, offFirstText, declared, "firstTextRecord")
		h.LastTextRecord = optionalField(bounded, offLastText, declared, "lastTextRecord")
	}

	return h, nil
}

// optionalField reads a uint32 field inside the declared header region.
// A read past the declared length degrades to zero; the warning keeps a
// truncated field distinguishable from one that is legitimately absent.
func optionalField(c *cursor, off int, declared uint32, name string) uint32 {
	if off+4 > int(declared) {
		log.Printf("warning: mobi header field %s at 0x%02X exceeds declared length 0x%02X, defaulting to 0", name, off, declared)
		return 0
	}
	v, err := c.uint32At(off)
	if err != nil {
		log.Printf("warning: mobi header field %s unreadable: %v, defaulting to 0", name, err)
		return 0
	}
	return v
}

// unpackOffsetLength splits a packed header word into its absolute byte
// offset (high 16 bits) and length (low 16 bits).
func unpackOffsetLength(word uint32) (offset, length uint32) {
	return word >> 16, word & 0xFFFF
}
