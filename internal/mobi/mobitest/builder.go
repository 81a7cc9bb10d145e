// Package mobitest builds synthetic MOBI containers for tests. It mirrors
// the PalmDB layout rules the decoder expects: a 78-byte preamble, an
// 8-byte-per-record offset table, a 2-byte pad, then the record payloads.
package mobitest

import (
	"encoding/binary"

	"github.com/yuanying/mobi2text/internal/mobi"
)

// HeaderSpec describes the MOBI header record of a synthetic file. Title
// and author bytes are appended directly after the declared header region
// and their packed offset/length words point at them.
type HeaderSpec struct {
	DeclaredLength uint32 // size of the header region; 0 means 0x70
	RawDeclared    uint32 // when non-zero, written as the declared length verbatim (corrupt fixtures)

	MobiType     uint32
	TextEncoding uint32
	UniqueID     uint32
	FileVersion  uint32

	Title  string
	Author string

	LanguageCode uint32
	FirstText    uint32
	LastText     uint32
}

type record struct {
	data   []byte
	header *HeaderSpec
}

// FileBuilder assembles a synthetic MOBI file record by record.
type FileBuilder struct {
	name    string
	records []record
}

// NewFile creates a builder whose PDB name field holds the given name.
func NewFile(name string) *FileBuilder {
	return &FileBuilder{name: name}
}

// AddRecord appends a raw record.
func (b *FileBuilder) AddRecord(data []byte) *FileBuilder {
	b.records = append(b.records, record{data: data})
	return b
}

// AddHeader appends a MOBI header record built from spec.
func (b *FileBuilder) AddHeader(spec HeaderSpec) *FileBuilder {
	s := spec
	b.records = append(b.records, record{header: &s})
	return b
}

// AddText appends a text record holding plain compressed with the
// reference encoder.
func (b *FileBuilder) AddText(plain string) *FileBuilder {
	return b.AddRecord(mobi.Compress([]byte(plain)))
}

// Build assembles the complete file buffer.
func (b *FileBuilder) Build() []byte {
	n := len(b.records)
	base := 78 + n*8 + 2

	// Record sizes are needed before header records can be materialized,
	// since title/author offsets are absolute file positions.
	sizes := make([]int, n)
	for i, r := range b.records {
		if r.header != nil {
			sizes[i] = int(declaredOrDefault(r.header)) + len(r.header.Title) + len(r.header.Author)
		} else {
			sizes[i] = len(r.data)
		}
	}

	offsets := make([]int, n)
	pos := base
	for i, size := range sizes {
		offsets[i] = pos
		pos += size
	}
	total := pos

	out := make([]byte, 0, total)

	// PDB preamble.
	var name [32]byte
	copy(name[:], b.name)
	out = append(out, name[:]...)
	out = appendUint16(out, 0) // attributes
	out = appendUint16(out, 0) // version
	out = appendUint32(out, 0) // creation
	out = appendUint32(out, 0) // modification
	out = appendUint32(out, 0) // backup
	out = appendUint32(out, 0) // modification number
	out = appendUint32(out, 0) // app info
	out = appendUint32(out, 0) // sort info
	out = append(out, "BOOK"...)
	out = append(out, "MOBI"...)
	out = appendUint32(out, 0) // unique seed
	out = appendUint32(out, 0) // next record list
	out = appendUint16(out, uint16(n))

	// Record table plus the trailing 2-byte pad.
	for i := range b.records {
		out = appendUint32(out, uint32(offsets[i]))
		out = append(out, 0, byte(i>>16), byte(i>>8), byte(i))
	}
	out = appendUint16(out, 0)

	for i, r := range b.records {
		if r.header != nil {
			out = append(out, headerBytes(r.header, offsets[i])...)
		} else {
			out = append(out, r.data...)
		}
	}

	return out
}

func declaredOrDefault(spec *HeaderSpec) uint32 {
	if spec.DeclaredLength != 0 {
		return spec.DeclaredLength
	}
	return 0x70
}

// headerBytes materializes a header record starting at the given absolute
// file offset.
func headerBytes(spec *HeaderSpec, start int) []byte {
	declared := declaredOrDefault(spec)
	buf := make([]byte, declared, int(declared)+len(spec.Title)+len(spec.Author))

	copy(buf, "MOBI")
	written := declared
	if spec.RawDeclared != 0 {
		written = spec.RawDeclared
	}
	putUint32(buf, 0x04, written)
	putUint32(buf, 0x08, spec.MobiType)
	putUint32(buf, 0x0C, spec.TextEncoding)
	putUint32(buf, 0x10, spec.UniqueID)
	putUint32(buf, 0x14, spec.FileVersion)

	titleOff := start + int(declared)
	if spec.Title != "" {
		putUint32(buf, 0x38, packOffsetLength(titleOff, len(spec.Title)))
	}
	if spec.Author != "" {
		putUint32(buf, 0x3C, packOffsetLength(titleOff+len(spec.Title), len(spec.Author)))
	}
	putUint32(buf, 0x44, spec.LanguageCode)
	putUint32(buf, 0x68, spec.FirstText)
	putUint32(buf, 0x6C, spec.LastText)

	buf = append(buf, spec.Title...)
	buf = append(buf, spec.Author...)
	return buf
}

func packOffsetLength(offset, length int) uint32 {
	return uint32(offset)<<16 | uint32(length)&0xFFFF
}

// putUint32 writes v at off when the header region is large enough to
// contain it; short headers simply omit the field.
func putUint32(buf []byte, off int, v uint32) {
	if off+4 > len(buf) {
		return
	}
	binary.BigEndian.PutUint32(buf[off:], v)
}

func appendUint16(out []byte, v uint16) []byte {
	return append(out, byte(v>>8), byte(v))
}

func appendUint32(out []byte, v uint32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
