package extract

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CoverStore persists recovered cover image bytes and returns an opaque
// stored-location reference.
type CoverStore interface {
	SaveCover(bookID string, data []byte) (string, error)
}

// FileCoverStore writes covers into a directory as JPEG files named after
// the book id. Decoding through imaging validates the payload before
// anything is written.
type FileCoverStore struct {
	Dir string
}

func (s FileCoverStore) SaveCover(bookID string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode cover image: %w", err)
	}

	path := filepath.Join(s.Dir, bookID+".jpg")
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save cover image: %w", err)
	}
	return path, nil
}
