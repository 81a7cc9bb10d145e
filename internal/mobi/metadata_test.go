package mobi_test

import (
	"encoding/binary"
	"testing"

	"github.com/yuanying/mobi2text/internal/mobi"
	"github.com/yuanying/mobi2text/internal/mobi/mobitest"
)

func parseFixture(t *testing.T, data []byte) (*mobi.PDB, *mobi.Header) {
	t.Helper()
	p, err := mobi.ParsePDB(data)
	if err != nil {
		t.Fatalf("mobi.ParsePDB error: %v", err)
	}
	idx, err := mobi.LocateHeader(data, p)
	if err != nil {
		t.Fatalf("mobi.LocateHeader error: %v", err)
	}
	h, err := mobi.ParseHeader(data, p, idx)
	if err != nil {
		t.Fatalf("mobi.ParseHeader error: %v", err)
	}
	return p, h
}

func TestResolveMetadata_UTF8(t *testing.T) {
	data := mobitest.NewFile("DB Name").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			Title:        "Voyage au centre de la Terre",
			Author:       "Jules Verne",
			LanguageCode: 10,
			FirstText:    1,
			LastText:     1,
		}).
		AddText("body").
		Build()

	p, h := parseFixture(t, data)
	m := mobi.ResolveMetadata(data, p, h)

	if m.Title != "Voyage au centre de la Terre" {
		t.Fatalf("Title = %q, want %q", m.Title, "Voyage au centre de la Terre")
	}
	if m.Author != "Jules Verne" {
		t.Fatalf("Author = %q, want %q", m.Author, "Jules Verne")
	}
	if m.Language != "fr" {
		t.Fatalf("Language = %q, want %q", m.Language, "fr")
	}
}

func TestResolveMetadata_LegacyEncoding(t *testing.T) {
	// 0xE9 is é in the legacy single-byte encoding.
	data := mobitest.NewFile("DB Name").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: 1252,
			Title:        "Caf\xe9",
			FirstText:    1,
			LastText:     1,
		}).
		AddText("body").
		Build()

	p, h := parseFixture(t, data)
	m := mobi.ResolveMetadata(data, p, h)

	if m.Title != "Café" {
		t.Fatalf("Title = %q, want %q", m.Title, "Café")
	}
}

func TestResolveMetadata_OutOfBoundsTitleFallsBack(t *testing.T) {
	data := mobitest.NewFile("Fallback Name").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			Title:        "Real Title",
			FirstText:    1,
			LastText:     1,
		}).
		AddText("body").
		Build()

	// Patch the packed title word so the offset points past the buffer.
	headerStart := 78 + 2*8 + 2
	binary.BigEndian.PutUint32(data[headerStart+0x38:], 0xFFF00004)

	p, h := parseFixture(t, data)
	m := mobi.ResolveMetadata(data, p, h)

	if m.Title != "Fallback Name" {
		t.Fatalf("Title = %q, want container name fallback %q", m.Title, "Fallback Name")
	}
}

func TestResolveMetadata_PlaceholderNameIsNotAFallback(t *testing.T) {
	data := mobitest.NewFile("Untitled").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			FirstText:    1,
			LastText:     1,
		}).
		AddText("body").
		Build()

	p, h := parseFixture(t, data)
	m := mobi.ResolveMetadata(data, p, h)

	if m.Title != "" {
		t.Fatalf("Title = %q, want empty (placeholder database name)", m.Title)
	}
}

func TestResolveMetadata_AbsentAuthorStaysEmpty(t *testing.T) {
	data := mobitest.NewFile("Named Database").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			Title:        "Has Title",
			FirstText:    1,
			LastText:     1,
		}).
		AddText("body").
		Build()

	p, h := parseFixture(t, data)
	m := mobi.ResolveMetadata(data, p, h)

	if m.Author != "" {
		t.Fatalf("Author = %q, want empty for an absent field", m.Author)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code uint32
		want string
	}{
		{9, "en"},
		{10, "fr"},
		{11, "de"},
		{13, "es"},
		{0, "en"},
		{999, "en"},
		// Region bits above the low 10 are ignored.
		{4<<10 | 10, "fr"},
	}
	for _, tt := range tests {
		if got := mobi.LanguageName(tt.code); got != tt.want {
			t.Fatalf("mobi.LanguageName(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
