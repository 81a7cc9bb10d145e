package mobi_test

import (
	"strings"
	"testing"

	"github.com/yuanying/mobi2text/internal/mobi"
	"github.com/yuanying/mobi2text/internal/mobi/mobitest"
)

func TestExtractText_JoinsRecords(t *testing.T) {
	data := mobitest.NewFile("Two Records").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			FirstText:    1,
			LastText:     2,
		}).
		AddText("Hello").
		AddText("World").
		Build()

	p, h := parseFixture(t, data)
	got := mobi.ExtractText(data, p, h)
	if got != "Hello\nWorld" {
		t.Fatalf("ExtractText = %q, want %q", got, "Hello\nWorld")
	}
}

func TestTextRange_RecoversMissingRange(t *testing.T) {
	// No FirstText/LastText in the header: everything after the header
	// record counts as text.
	data := mobitest.NewFile("No Range").
		AddHeader(mobitest.HeaderSpec{TextEncoding: mobi.EncodingUTF8}).
		AddText("alpha").
		AddText("beta").
		Build()

	p, h := parseFixture(t, data)
	first, last := mobi.TextRange(p, h)
	if first != 1 || last != 2 {
		t.Fatalf("TextRange = %d..%d, want 1..2", first, last)
	}
	if got := mobi.ExtractText(data, p, h); got != "alpha\nbeta" {
		t.Fatalf("ExtractText = %q, want %q", got, "alpha\nbeta")
	}
}

func TestTextRange_ClampsLastRecord(t *testing.T) {
	data := mobitest.NewFile("Overdeclared").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			FirstText:    1,
			LastText:     50,
		}).
		AddText("only record").
		Build()

	p, h := parseFixture(t, data)
	first, last := mobi.TextRange(p, h)
	if first != 1 || last != 1 {
		t.Fatalf("TextRange = %d..%d, want 1..1", first, last)
	}
}

func TestTextRange_SkipsHeaderRecord(t *testing.T) {
	// A range that claims to start at the header record itself must not
	// feed the header bytes into the decompressor.
	data := mobitest.NewFile("Self Range").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			FirstText:    0,
			LastText:     1,
		}).
		AddText("clean text").
		Build()

	p, h := parseFixture(t, data)
	got := mobi.ExtractText(data, p, h)
	if got != "clean text" {
		t.Fatalf("ExtractText = %q, want %q", got, "clean text")
	}
}

func TestExtractText_SalvagesCorruptRecord(t *testing.T) {
	// 0x05 declares a 5-byte literal run but only 2 bytes follow, so
	// decompression fails and the record is salvaged byte-wise.
	corrupt := []byte{'O', 'K', ' ', 0x05, 'x', 'y'}
	data := mobitest.NewFile("Corrupt Record").
		AddHeader(mobitest.HeaderSpec{
			TextEncoding: mobi.EncodingUTF8,
			FirstText:    1,
			LastText:     2,
		}).
		AddText("good").
		AddRecord(corrupt).
		Build()

	p, h := parseFixture(t, data)
	got := mobi.ExtractText(data, p, h)
	if !strings.HasPrefix(got, "good\n") {
		t.Fatalf("ExtractText = %q, want the intact record first", got)
	}
	if !strings.Contains(got, "OK xy") {
		t.Fatalf("ExtractText = %q, want salvaged printable bytes %q", got, "OK xy")
	}
}
