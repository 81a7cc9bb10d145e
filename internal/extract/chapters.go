package extract

import (
	"regexp"
	"strings"
)

// ChapterPattern is one heading-detection strategy. Patterns are tried in
// order and the first with at least one match is used exclusively.
type ChapterPattern struct {
	Name string
	Re   *regexp.Regexp
}

// DefaultChapterPatterns is the built-in priority list. Callers may pass
// their own ordered list to extend or reorder the strategies. The patterns
// are heuristic; MOBI files as handled here carry no table of contents.
var DefaultChapterPatterns = []ChapterPattern{
	{Name: "chapter", Re: regexp.MustCompile(`(?m)^Chapter\s+\d+`)},
	{Name: "chapter-caps", Re: regexp.MustCompile(`(?m)^CHAPTER\s+\d+`)},
	{Name: "numbered", Re: regexp.MustCompile(`(?m)^\d+\.\s`)},
	{Name: "roman", Re: regexp.MustCompile(`(?m)^[IVXLCDM]+\.\s`)},
}

// Span is a half-open chapter range within the normalized text.
type Span struct {
	Start int
	End   int
	Title string
}

// Segment splits text into chapter spans using the first pattern that
// matches anything. Spans are contiguous and cover the whole text: a
// leading segment before the first match becomes its own chapter, and if
// no pattern matches at all a single span covers everything.
func Segment(text string, patterns []ChapterPattern) []Span {
	if text == "" {
		return nil
	}
	if patterns == nil {
		patterns = DefaultChapterPatterns
	}

	for _, p := range patterns {
		locs := p.Re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		starts := make([]int, 0, len(locs)+1)
		if locs[0][0] > 0 {
			starts = append(starts, 0)
		}
		for _, loc := range locs {
			if len(starts) > 0 && starts[len(starts)-1] == loc[0] {
				continue
			}
			starts = append(starts, loc[0])
		}

		spans := make([]Span, 0, len(starts))
		for i, start := range starts {
			end := len(text)
			if i+1 < len(starts) {
				end = starts[i+1]
			}
			if start >= end {
				continue
			}
			spans = append(spans, Span{
				Start: start,
				End:   end,
				Title: spanTitle(text[start:end]),
			})
		}
		return spans
	}

	return []Span{{Start: 0, End: len(text), Title: spanTitle(text)}}
}

// spanTitle derives a chapter title from the first non-empty line of its
// text, capped at 80 runes.
func spanTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > 80 {
			return string(runes[:80])
		}
		return line
	}
	return ""
}
