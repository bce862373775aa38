package utils

import "strings"

// StripFences removes a surrounding markdown code fence from model output.
// Models regularly wrap the JSON they were asked for in ```json fences even
// when told not to.
func StripFences(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}

	out = strings.TrimPrefix(out, "```")
	if idx := strings.Index(out, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		out = out[idx+1:]
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
