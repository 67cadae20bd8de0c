package llm

import "strings"

// CleanJSONResponse strips markdown fences and any prose around the first
// JSON array or object in a model reply.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return content
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end > start {
		content = content[start : end+1]
	}
	return content
}
