package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// cleanResponse strips reasoning tags and markdown fences that local
// models wrap around their JSON payloads.
func cleanResponse(content string) string {
	content = thinkTagRe.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// decodeJSON unmarshals LLM output into target, repairing malformed
// JSON first. Models truncate, drop quotes, and leave trailing commas
// often enough that repairing unconditionally is cheaper than parsing
// twice.
func decodeJSON(content string, target any) error {
	cleaned := cleanResponse(content)
	if cleaned == "" {
		return fmt.Errorf("empty response content")
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("repairing response JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("decoding response JSON: %w", err)
	}
	return nil
}
