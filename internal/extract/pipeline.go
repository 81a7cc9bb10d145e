package extract

import (
	"log"
	"strings"
	"time"

	"github.com/yuanying/mobi2text/internal/book"
	"github.com/yuanying/mobi2text/internal/mobi"
)

// Options configures a parse. The zero value uses the goquery-based text
// extractor, the default chapter patterns, and no cover persistence.
type Options struct {
	// Source is a diagnostic label (typically a file name). It is never
	// used to open anything; the decoder performs no I/O.
	Source string

	// Extractor overrides the HTML-to-text capability.
	Extractor TextExtractor

	// Patterns overrides the ordered chapter-detection strategies.
	Patterns []ChapterPattern

	// Covers, when set, persists a recovered cover image.
	Covers CoverStore

	// Now overrides the clock used for Book.AddedAt.
	Now func() time.Time
}

// Parse decodes a MOBI byte buffer into a Book. It returns either a fully
// populated Book or a *mobi.FormatError; there is no partial result.
func Parse(data []byte, opts Options) (*book.Book, error) {
	pdb, err := mobi.ParsePDB(data)
	if err != nil {
		return nil, err
	}

	headerIdx, err := mobi.LocateHeader(data, pdb)
	if err != nil {
		return nil, err
	}

	header, err := mobi.ParseHeader(data, pdb, headerIdx)
	if err != nil {
		return nil, err
	}

	meta := mobi.ResolveMetadata(data, pdb, header)
	raw := mobi.ExtractText(data, pdb, header)

	text := assemble(raw, opts.Extractor, opts.Source)
	if text == "" {
		return nil, &mobi.FormatError{Err: mobi.ErrEmptyContent, Offset: -1, Record: -1, Detail: opts.Source}
	}

	id := book.NewID(meta.Title, meta.Author, text)

	spans := Segment(text, opts.Patterns)
	chapters := make([]book.Chapter, 0, len(spans))
	for i, s := range spans {
		chapters = append(chapters, book.Chapter{
			ID:         book.ChapterID(id, i),
			Title:      s.Title,
			StartIndex: s.Start,
			EndIndex:   s.End,
			BookID:     id,
		})
	}

	coverPath := storeCover(data, pdb, header, id, opts.Covers)

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	return &book.Book{
		ID:             id,
		Title:          meta.Title,
		Author:         meta.Author,
		Format:         book.FormatMOBI,
		CoverImagePath: coverPath,
		Chapters:       chapters,
		FullText:       text,
		Language:       meta.Language,
		AddedAt:        now().UTC(),
	}, nil
}

// assemble turns raw record text into normalized plain text. A failing or
// empty structured parse degrades to tag stripping rather than aborting.
func assemble(raw string, extractor TextExtractor, source string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if extractor == nil {
		extractor = GoqueryExtractor{}
	}

	text, err := extractor.Extract(raw)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			log.Printf("warning: structured text extraction failed for %q, stripping tags: %v", source, err)
		}
		text = StripTags(raw)
	}
	return Normalize(text)
}

// storeCover hands trivially recoverable cover bytes to the store, if any.
// Failures degrade to no cover.
func storeCover(data []byte, pdb *mobi.PDB, header *mobi.Header, bookID string, store CoverStore) string {
	if store == nil {
		return ""
	}
	cover, _, ok := mobi.CoverImage(data, pdb, header)
	if !ok {
		return ""
	}
	path, err := store.SaveCover(bookID, cover)
	if err != nil {
		log.Printf("warning: failed to store cover for %s: %v", bookID, err)
		return ""
	}
	return path
}
