package phrase

import (
	"strings"
	"unicode"
)

// Tagger assigns part-of-speech tags to a token sequence. Tags follow the
// Penn Treebank prefixes the filter cares about: NN*, JJ, CD, VB, PRP, DT.
type Tagger interface {
	Tag(tokens []string) []string
}

// HeuristicTagger is a dictionary-and-suffix tagger. It errs toward NN for
// unknown tokens, which is the useful bias for overlay phrases.
type HeuristicTagger struct{}

func (HeuristicTagger) Tag(tokens []string) []string {
	tags := make([]string, len(tokens))
	for i, token := range tokens {
		tags[i] = tagToken(token)
	}
	return tags
}

func tagToken(token string) string {
	if token == "" {
		return ""
	}
	if isNumeric(token) {
		return "CD"
	}
	upper := strings.ToUpper(token)
	if pronounTokens[upper] {
		return "PRP"
	}
	lower := strings.ToLower(token)
	if auxVerbs[lower] || commonVerbs[lower] {
		return "VB"
	}
	if stopWords[lower] {
		return "DT"
	}
	for _, suffix := range adjectiveSuffixes {
		if len(upper) > len(suffix)+2 && strings.HasSuffix(upper, suffix) {
			return "JJ"
		}
	}
	return "NN"
}

func isNumeric(token string) bool {
	hasDigit := false
	for _, r := range token {
		if unicode.IsDigit(r) {
			hasDigit = true
		} else if unicode.IsLetter(r) {
			return false
		}
	}
	return hasDigit
}
