package mobi

import (
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// languageNames maps the low 10 bits of the header language code to a
// language tag. Unknown or zero codes resolve to English.
var languageNames = map[uint32]string{
	9:  "en",
	10: "fr",
	11: "de",
	13: "es",
}

// placeholderNames are database names that carry no real title information
// and must not be used as a metadata fallback.
var placeholderNames = map[string]bool{
	"untitled": true,
	"unknown":  true,
	"ebook":    true,
	"book":     true,
}

// Metadata holds the resolved book-level strings. Empty fields mean the
// information was absent or unrecoverable.
type Metadata struct {
	Title    string
	Author   string
	Language string
}

// ResolveMetadata decodes title, author and language from the header.
// Field-level failures degrade to the container name or to empty values;
// they never abort the parse.
func ResolveMetadata(data []byte, pdb *PDB, h *Header) Metadata {
	var m Metadata

	title, ok := decodeField(data, h.TitleOffset, h.TitleLength, h.TextEncoding, "title")
	if !ok || title == "" {
		title = fallbackName(pdb)
	}
	m.Title = title

	author, ok := decodeField(data, h.AuthorOffset, h.AuthorLength, h.TextEncoding, "author")
	if !ok {
		// A corrupt author field falls back like the title; an absent one
		// stays empty rather than duplicating the database name.
		author = fallbackName(pdb)
	}
	m.Author = author

	m.Language = LanguageName(h.LanguageCode)
	return m
}

// LanguageName resolves a packed header language code to a language tag.
func LanguageName(code uint32) string {
	if name, ok := languageNames[code&0x3FF]; ok {
		return name
	}
	return "en"
}

// decodeField slices [offset, offset+length) from the file buffer and
// decodes it with the header encoding. The second return value is false
// only for bounds violations or decode failures; an absent field (zero
// offset or length) returns ("", true).
func decodeField(data []byte, offset, length, encoding uint32, name string) (string, bool) {
	if offset == 0 || length == 0 {
		return "", true
	}
	if int(offset) >= len(data) {
		log.Printf("warning: mobi %s offset %d outside buffer of %d bytes", name, offset, len(data))
		return "", false
	}
	end := int(offset) + int(length)
	if end > len(data) {
		log.Printf("warning: mobi %s field clamped from %d to %d bytes", name, length, len(data)-int(offset))
		end = len(data)
	}
	raw := data[offset:end]

	if encoding == EncodingUTF8 {
		if !utf8.Valid(raw) {
			log.Printf("warning: mobi %s field is not valid UTF-8", name)
			return "", false
		}
		return strings.TrimSpace(string(raw)), true
	}

	// Legacy 8-bit text: every byte maps straight to a code point.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		log.Printf("warning: mobi %s field failed legacy decode: %v", name, err)
		return "", false
	}
	return strings.TrimSpace(string(decoded)), true
}

// fallbackName returns the container database name unless it is empty or a
// generic placeholder.
func fallbackName(pdb *PDB) string {
	name := strings.TrimSpace(pdb.Name())
	if name == "" || placeholderNames[strings.ToLower(name)] {
		return ""
	}
	return name
}
