package cleaner

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// ByRule key for bytes removed by DOM extraction, ahead of the regex rules.
const domRuleName = "dom"

// placeholderURL satisfies readability's base-URL requirement; records carry
// no usable base since content arrives detached from its page.
var placeholderURL = &url.URL{Scheme: "https", Host: "corpus.invalid"}

// stripMarkupDOM extracts readable text from content that is itself HTML.
// Full documents go through readability's article extraction; bare fragments
// are flattened with goquery. Content without markup is returned unchanged.
// On any extraction failure the original text is returned and the regex
// pipeline remains the safety net.
func stripMarkupDOM(text string, byRule map[string]int64, logger *slog.Logger) string {
	if !strings.Contains(text, "<") {
		return text
	}

	extracted := text
	if isFullDocument(text) {
		article, err := readability.FromReader(strings.NewReader(text), placeholderURL)
		if err != nil {
			logger.Warn("readability extraction failed, falling back to regex rules", "error", err)
			return text
		}
		extracted = article.TextContent
	} else {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err != nil {
			logger.Warn("fragment parse failed, falling back to regex rules", "error", err)
			return text
		}
		extracted = doc.Text()
	}

	if delta := len(text) - len(extracted); delta > 0 {
		byRule[domRuleName] += int64(delta)
	}
	return extracted
}

// isFullDocument reports whether text looks like a complete HTML document
// rather than a markup fragment.
func isFullDocument(text string) bool {
	head := strings.ToLower(text)
	if len(head) > 1024 {
		head = head[:1024]
	}
	return strings.Contains(head, "<!doctype") ||
		strings.Contains(head, "<html") ||
		strings.Contains(head, "<body")
}
