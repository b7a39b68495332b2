// Package phrase reduces transcript text to compact overlay phrases. It
// tokenizes, strips filler and verbs, and keeps noun-heavy spans either via
// a part-of-speech tagger or a lexical fallback filter.
package phrase

import (
	"regexp"
	"strings"
)

var (
	wordRe      = regexp.MustCompile(`[A-Za-z0-9']+`)
	alnumWordRe = regexp.MustCompile(`[A-Za-z0-9]+`)
	// Latin letters incl. the supplement/extended-A ranges so accented
	// names survive sanitization.
	latinWordRe  = regexp.MustCompile(`[A-Za-z0-9\x{00C0}-\x{017F}]+`)
	alnumRe      = regexp.MustCompile(`[A-Za-z0-9]`)
	taggableRe   = regexp.MustCompile(`[^A-Za-z0-9'-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Words extracts word tokens (letters, digits, apostrophes) from text.
func Words(text string) []string {
	return wordRe.FindAllString(text, -1)
}

// AlnumWords extracts plain alphanumeric tokens from text.
func AlnumWords(text string) []string {
	return alnumWordRe.FindAllString(text, -1)
}

// Filter keeps the noun-phrase core of a token sequence. With a Tagger set
// it uses part-of-speech tags; otherwise a lexical verb/stopword filter.
type Filter struct {
	Tagger Tagger
	verbs  map[string]bool
}

// NewKeywordFilter returns the filter used for keyword selection, with the
// broad verb set and the heuristic tagger.
func NewKeywordFilter() *Filter {
	return &Filter{Tagger: HeuristicTagger{}, verbs: commonVerbs}
}

// NewSanitizeFilter returns the filter used for display-text sanitization.
// It drops only auxiliary verbs and never consults a tagger.
func NewSanitizeFilter() *Filter {
	return &Filter{verbs: auxVerbs}
}

func cleanToken(token string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(token), " ")
}

func trimEdgeConnectors(tokens []string) []string {
	result := tokens
	for len(result) > 0 && allowedConnectors[strings.ToUpper(result[0])] {
		result = result[1:]
	}
	for len(result) > 0 && allowedConnectors[strings.ToUpper(result[len(result)-1])] {
		result = result[:len(result)-1]
	}
	return result
}

// NounPhrase filters tokens down to a noun phrase of at most maxTokens
// content tokens. Connectors do not count against the limit. Falls back to
// the cleaned input when filtering would leave nothing.
func (f *Filter) NounPhrase(tokens []string, maxTokens int) []string {
	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if c := cleanToken(token); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	var filtered []string
	if f.Tagger != nil {
		filtered = f.filterWithTags(cleaned)
	}
	if len(filtered) == 0 {
		filtered = f.lexicalFilter(cleaned)
	}
	if len(filtered) == 0 {
		filtered = cleaned
	}

	if maxTokens > 0 {
		limited := make([]string, 0, len(filtered))
		content := 0
		for _, token := range filtered {
			limited = append(limited, token)
			if !allowedConnectors[strings.ToUpper(token)] {
				content++
			}
			if content >= maxTokens {
				break
			}
		}
		if trimmed := trimEdgeConnectors(limited); len(trimmed) > 0 {
			filtered = trimmed
		}
	}

	return filtered
}

func (f *Filter) filterWithTags(tokens []string) []string {
	taggableIdx := make([]int, 0, len(tokens))
	taggable := make([]string, 0, len(tokens))
	for idx, token := range tokens {
		stripped := taggableRe.ReplaceAllString(token, "")
		if stripped == "" {
			continue
		}
		if allowedConnectors[strings.ToUpper(stripped)] {
			continue
		}
		taggableIdx = append(taggableIdx, idx)
		taggable = append(taggable, strings.ToLower(stripped))
	}
	if len(taggable) == 0 {
		return nil
	}

	tags := f.Tagger.Tag(taggable)
	indexToTag := make(map[int]string, len(tags))
	for i, tag := range tags {
		indexToTag[taggableIdx[i]] = strings.ToUpper(tag)
	}

	hasNoun := func(from, to int) bool {
		for i := from; i < to; i++ {
			if strings.HasPrefix(indexToTag[i], "NN") {
				return true
			}
		}
		return false
	}

	total := len(tokens)
	selected := make([]string, 0, total)
	for idx, token := range tokens {
		normalized := cleanToken(token)
		if normalized == "" {
			continue
		}
		upperToken := strings.ToUpper(normalized)
		if allowedConnectors[upperToken] {
			if hasNoun(0, idx) && hasNoun(idx+1, total) {
				selected = append(selected, upperToken)
			}
			continue
		}

		tag := indexToTag[idx]
		switch {
		case tag == "":
			continue
		case strings.HasPrefix(tag, "NN"):
			selected = append(selected, normalized)
		case strings.HasPrefix(tag, "JJ") || tag == "CD":
			if hasNoun(idx+1, total) {
				selected = append(selected, normalized)
			}
		}
	}

	return trimEdgeConnectors(selected)
}

func (f *Filter) lexicalFilter(tokens []string) []string {
	total := len(tokens)

	hasFutureContent := func(start int) bool {
		for i := start; i < total; i++ {
			candidate := strings.TrimSpace(tokens[i])
			if candidate == "" {
				continue
			}
			if f.verbs[strings.ToLower(candidate)] {
				continue
			}
			if !alnumRe.MatchString(candidate) {
				continue
			}
			return true
		}
		return false
	}

	selected := make([]string, 0, total)
	for idx, token := range tokens {
		normalized := cleanToken(token)
		if normalized == "" {
			continue
		}
		upperToken := strings.ToUpper(normalized)
		if allowedConnectors[upperToken] {
			if len(selected) > 0 && hasFutureContent(idx+1) {
				selected = append(selected, upperToken)
			}
			continue
		}
		if f.verbs[strings.ToLower(normalized)] {
			continue
		}
		if !alnumRe.MatchString(normalized) {
			continue
		}
		selected = append(selected, normalized)
	}

	return trimEdgeConnectors(selected)
}
