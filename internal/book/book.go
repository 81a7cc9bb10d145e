package book

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// FormatMOBI is the format tag carried by books produced by this decoder.
const FormatMOBI = "mobi"

// Book is the decoded output of one parse call. Values are immutable once
// returned; the decoder holds no cross-call state.
type Book struct {
	ID             string
	Title          string
	Author         string
	Format         string
	CoverImagePath string
	Chapters       []Chapter
	FullText       string
	Language       string
	AddedAt        time.Time
}

// Chapter is a half-open span [StartIndex, EndIndex) within the book's
// full text.
type Chapter struct {
	ID         string
	Title      string
	StartIndex int
	EndIndex   int
	BookID     string
}

// NewID derives a book identifier from its content. A content hash stays
// stable across imports of the same file and cannot collide under
// concurrent imports the way a wall-clock scheme can.
func NewID(title, author, fullText string) string {
	h := sha256.New()
	io.WriteString(h, title)
	h.Write([]byte{0})
	io.WriteString(h, author)
	h.Write([]byte{0})
	io.WriteString(h, fullText)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ChapterID returns the identifier of the n-th (zero-based) chapter.
func ChapterID(bookID string, n int) string {
	return fmt.Sprintf("%s-ch%02d", bookID, n+1)
}
