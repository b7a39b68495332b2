package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractPlanJSON pulls the draft-plan object out of a model response.
// Fenced code blocks are tried first, then the raw text, each with and
// without carriage returns, before a last-ditch strip of markdown fences.
func ExtractPlanJSON(text string) (map[string]any, error) {
	var candidates []string
	for _, match := range jsonBlockRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, strings.TrimSpace(match[1]))
	}
	if len(candidates) == 0 {
		candidates = append(candidates, strings.TrimSpace(text))
	}

	for _, candidate := range candidates {
		for _, cleaned := range []string{candidate, strings.ReplaceAll(candidate, "\r", "")} {
			var plan map[string]any
			if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
				continue
			}
			return plan, nil
		}
	}

	stripped := strings.TrimPrefix(text, "```json")
	stripped = strings.TrimSuffix(stripped, "```")
	var plan map[string]any
	if err := json.Unmarshal([]byte(stripped), &plan); err != nil {
		return nil, fmt.Errorf("could not parse JSON from LLM response: %w", err)
	}
	return plan, nil
}
