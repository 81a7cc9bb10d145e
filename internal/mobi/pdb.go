package mobi

import (
	"log"
	"strings"
)

const (
	// pdbHeaderSize is the fixed size of the Palm Database preamble.
	pdbHeaderSize = 78

	// recordEntrySize is the size of one record list entry.
	recordEntrySize = 8
)

// PDBHeader represents the fixed 78-byte Palm Database preamble.
// All fields are encoded in big-endian order.
type PDBHeader struct {
	Name               [32]byte // database name (31 bytes max, NULL padded)
	Attributes         uint16
	Version            uint16
	CreationDate       uint32
	ModificationDate   uint32
	BackupDate         uint32
	ModificationNumber uint32
	AppInfoOffset      uint32
	SortInfoOffset     uint32
	Type               [4]byte // usually "BOOK"
	Creator            [4]byte // usually "MOBI"
	UniqueSeed         uint32
	NextRecordList     uint32
	NumRecords         uint16
}

// RecordEntry represents a single record entry in the Palm Database record list.
type RecordEntry struct {
	Offset     uint32
	Attributes uint8
	UniqueID   [3]byte
}

// PDB is the parsed container layout: the preamble, the record table, and
// the total buffer size used to bound record spans.
type PDB struct {
	Header  PDBHeader
	Records []RecordEntry

	size int
}

// ParsePDB reads the Palm Database preamble and walks the record table.
// It fails with ErrTooSmall when the buffer cannot hold the preamble and
// with ErrNoRecords when the record count is zero.
func ParsePDB(data []byte) (*PDB, error) {
	if len(data) < pdbHeaderSize {
		return nil, formatErr(ErrTooSmall, len(data), -1, "")
	}

	c := newCursor(data)
	p := &PDB{size: len(data)}
	h := &p.Header

	name, _ := c.bytes(32)
	copy(h.Name[:], name)
	h.Attributes, _ = c.uint16()
	h.Version, _ = c.uint16()
	h.CreationDate, _ = c.uint32()
	h.ModificationDate, _ = c.uint32()
	h.BackupDate, _ = c.uint32()
	h.ModificationNumber, _ = c.uint32()
	h.AppInfoOffset, _ = c.uint32()
	h.SortInfoOffset, _ = c.uint32()
	typ, _ := c.bytes(4)
	copy(h.Type[:], typ)
	creator, _ := c.bytes(4)
	copy(h.Creator[:], creator)
	h.UniqueSeed, _ = c.uint32()
	h.NextRecordList, _ = c.uint32()
	h.NumRecords, _ = c.uint16()

	if h.NumRecords == 0 {
		return nil, formatErr(ErrNoRecords, pdbHeaderSize-2, -1, "")
	}

	p.Records = make([]RecordEntry, 0, h.NumRecords)
	prev := uint32(0)
	for i := 0; i < int(h.NumRecords); i++ {
		offset, err := c.uint32()
		if err != nil {
			return nil, formatErr(ErrTooSmall, c.pos, i, "record table truncated")
		}
		attrs, err := c.uint8()
		if err != nil {
			return nil, formatErr(ErrTooSmall, c.pos, i, "record table truncated")
		}
		uid, err := c.bytes(3)
		if err != nil {
			return nil, formatErr(ErrTooSmall, c.pos, i, "record table truncated")
		}

		if offset < prev {
			log.Printf("warning: mobi record %d offset %d precedes previous offset %d", i, offset, prev)
		}
		if int(offset) > len(data) {
			log.Printf("warning: mobi record %d offset %d exceeds buffer of %d bytes", i, offset, len(data))
		}
		prev = offset

		entry := RecordEntry{Offset: offset, Attributes: attrs}
		copy(entry.UniqueID[:], uid)
		p.Records = append(p.Records, entry)
	}

	return p, nil
}

// Name returns the database name with trailing NULs and whitespace trimmed.
func (p *PDB) Name() string {
	return strings.TrimRight(string(p.Header.Name[:]), "\x00 \t")
}

// NumRecords returns the number of entries in the record table.
func (p *PDB) NumRecords() int {
	return len(p.Records)
}

// RecordSpan returns the byte span [start, end) of record i. The span is
// clamped to the buffer, so a corrupt offset table yields an empty span
// rather than an out-of-range slice.
func (p *PDB) RecordSpan(i int) (start, end int) {
	if i < 0 || i >= len(p.Records) {
		return 0, 0
	}
	start = int(p.Records[i].Offset)
	if start > p.size {
		start = p.size
	}
	end = p.size
	if i+1 < len(p.Records) {
		end = int(p.Records[i+1].Offset)
		if end > p.size {
			end = p.size
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

// Record returns the raw bytes of record i within data, using the clamped
// span from the record table.
func (p *PDB) Record(data []byte, i int) []byte {
	start, end := p.RecordSpan(i)
	return data[start:end]
}
