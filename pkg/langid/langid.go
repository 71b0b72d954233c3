// Package langid backfills missing language fields from content text.
package langid

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// The crawler labels most records itself; detection only has to cover the
// languages actually present in the corpus, and a narrow set keeps the
// lingua models small.
var corpusLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
}

// Detector wraps a lingua detector behind the corpus language set.
type Detector struct {
	inner lingua.LanguageDetector
}

// maxSampleBytes caps how much content feeds detection; lingua converges
// long before page-sized inputs.
const maxSampleBytes = 4096

// New builds a Detector. Construction loads language models and is slow;
// build one per run and share it across workers (detection is safe for
// concurrent use).
func New() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(corpusLanguages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code for text, or "" when the text
// is empty or no language is confidently detected.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if len(text) > maxSampleBytes {
		cut := maxSampleBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	language, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
