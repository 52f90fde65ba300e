package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"skillscope/internal/models"
)

const (
	// MaxChunks caps the number of fragments per document so one request
	// cannot trigger an unbounded number of embeddings.
	MaxChunks = 100

	minChunkLen = 4
	maxChunkLen = 200
)

var (
	urlRe   = regexp.MustCompile(`https?://[^\s]+`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`[+]?[(]?[\d][\d\s\-()]{8,}[\d)]`)

	sectionRe  = regexp.MustCompile(`\n\s*\n`)
	sentenceRe = regexp.MustCompile(`[.!?]+\s+|\n+\s*[-•*]\s+|\n+\s*\d+[.)]\s+|\n+`)
	fragmentRe = regexp.MustCompile(`[,;]\s+|\s+and\s+|\s+or\s+|\s*\|\s*`)

	numericOnlyRe = regexp.MustCompile(`^\s*\d+\s*$`)
	dateRe        = regexp.MustCompile(`^\s*\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}\s*$`)
	pageNumberRe  = regexp.MustCompile(`(?i)^\s*page\s+\d+\s*$`)
)

// stopWords are fragments with no standalone meaning for matching.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "with": {}, "by": {}, "from": {}, "as": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"and": {}, "or": {}, "but": {}, "not": {}, "this": {}, "that": {},
	"it": {}, "its": {}, "my": {}, "our": {}, "your": {}, "their": {},
	"etc": {}, "other": {}, "various": {}, "using": {}, "used": {},
}

// Chunker turns raw document text into an ordered set of short,
// deduplicated fragments suitable for embedding. Chunk is a pure
// function: identical input always yields identical output.
type Chunker struct{}

func New() *Chunker {
	return &Chunker{}
}

// Chunk splits text into at most MaxChunks meaningful fragments,
// preserving original relative order and dropping case-insensitive
// duplicates. Empty input yields an empty result, never an error.
func (c *Chunker) Chunk(text string) []models.Chunk {
	cleaned := cleanText(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil
	}

	var chunks []models.Chunk
	seen := make(map[string]struct{})

	for _, section := range sectionRe.Split(cleaned, -1) {
		for _, unit := range sentenceRe.Split(section, -1) {
			unit = strings.TrimSpace(unit)
			if unit == "" {
				continue
			}
			for _, fragment := range fragmentRe.Split(unit, -1) {
				fragment = strings.Trim(fragment, " \t.,;:-–•*")
				if !isMeaningful(fragment) {
					continue
				}
				key := strings.ToLower(fragment)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				chunks = append(chunks, models.Chunk{
					Text:   fragment,
					Offset: runeOffset(cleaned, fragment),
				})
				if len(chunks) >= MaxChunks {
					return chunks
				}
			}
		}
	}

	return chunks
}

// cleanText strips URLs, emails and phone numbers and collapses runs of
// spaces and tabs. Newlines survive so section and list boundaries stay
// visible to the splitters.
func cleanText(text string) string {
	text = urlRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " ")
	text = phoneRe.ReplaceAllString(text, " ")

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune('\n')
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return b.String()
}

func isMeaningful(fragment string) bool {
	n := utf8.RuneCountInString(fragment)
	if n < minChunkLen || n > maxChunkLen {
		return false
	}
	if numericOnlyRe.MatchString(fragment) ||
		dateRe.MatchString(fragment) ||
		pageNumberRe.MatchString(fragment) {
		return false
	}

	letters := 0
	for _, r := range fragment {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 {
		return false
	}

	// Discard fragments composed only of stop-words.
	allStop := true
	for _, word := range strings.Fields(strings.ToLower(fragment)) {
		if _, ok := stopWords[strings.Trim(word, ".,;:!?")]; !ok {
			allStop = false
			break
		}
	}
	return !allStop
}

func runeOffset(text, fragment string) int {
	idx := strings.Index(text, fragment)
	if idx < 0 {
		return 0
	}
	return utf8.RuneCountInString(text[:idx])
}
