package matching

import "strings"

// stopWords are excluded from keyword extraction. Beyond common English
// function words, generic meeting vocabulary is excluded because it appears
// in nearly every transcript title and carries no project signal.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "up": {}, "about": {},
	"into": {}, "through": {}, "during": {},
	"meeting": {}, "call": {}, "sync": {}, "standup": {},
	"review": {}, "discussion": {},
}

// ExtractKeywords lowercases text, strips punctuation, and returns the
// distinct non-stop-words longer than two characters, in order of first
// appearance.
func ExtractKeywords(text string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(sb.String()) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
