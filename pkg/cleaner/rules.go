package cleaner

import "regexp"

// Rule is one named text rewrite. Rules apply in the order of Rules, each on
// the previous rule's output, always to the content_text field.
type Rule struct {
	Name        string
	Matcher     *regexp.Regexp
	Replacement string
}

var (
	// Runs of horizontal whitespace: space, tab, ideographic space.
	spacesRegex = regexp.MustCompile("[ \t　]+")

	// Any <...>-delimited markup span.
	tagsRegex = regexp.MustCompile(`<[^>]*>`)

	// HTML/XML character references, named, decimal, or hex. One optional
	// preceding space goes with the reference: by the time this rule runs
	// the spaces rule already collapsed whitespace, so removing the
	// reference alone would leave "there  now" behind "there &amp; now".
	entitiesRegex = regexp.MustCompile(`[ \t]?&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

	// Non-printable control bytes, newline excepted.
	controlCharsRegex = regexp.MustCompile("[\x00-\x09\x0b-\x1f\x7f]")

	// The Unicode replacement character U+FFFD.
	unicodeReplacementRegex = regexp.MustCompile("�")

	// Markdown links: [text](url) keeps just text.
	markdownRegex = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

	// Query-string suffixes: from ? up to the next quote, whitespace, or
	// angle bracket.
	urlsRegex = regexp.MustCompile(`\?[^\s"'<>]*`)

	// Three or more consecutive newlines collapse to exactly two.
	extraLineBreaksRegex = regexp.MustCompile(`\n{3,}`)
)

// Rules is the cleaning pipeline in application order.
var Rules = []Rule{
	{Name: "spaces", Matcher: spacesRegex, Replacement: " "},
	{Name: "tags", Matcher: tagsRegex, Replacement: ""},
	{Name: "entities", Matcher: entitiesRegex, Replacement: ""},
	{Name: "controlChars", Matcher: controlCharsRegex, Replacement: ""},
	{Name: "unicodeReplacement", Matcher: unicodeReplacementRegex, Replacement: ""},
	{Name: "markdown", Matcher: markdownRegex, Replacement: "$1"},
	{Name: "urls", Matcher: urlsRegex, Replacement: ""},
	{Name: "extraLineBreaks", Matcher: extraLineBreaksRegex, Replacement: "\n\n"},
}

// ApplyRules runs the full pipeline over text and records how many bytes
// each rule removed on its own pass into byRule.
func ApplyRules(text string, byRule map[string]int64) string {
	for _, rule := range Rules {
		before := len(text)
		text = rule.Matcher.ReplaceAllString(text, rule.Replacement)
		if delta := before - len(text); delta > 0 {
			byRule[rule.Name] += int64(delta)
		}
	}
	return text
}
