package llm

import (
	"encoding/json"
	"strings"
	"unicode"
)

const fence = "```"

// Normalize strips markdown code fences from raw model output and decodes the remaining JSON.
// Decode failures are always reported as *MalformedOutputError.
func Normalize(raw string) (interface{}, error) {
	var value interface{}
	if err := NormalizeInto(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// NormalizeInto is Normalize decoding into dest.
func NormalizeInto(raw string, dest interface{}) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		return &MalformedOutputError{Text: cleaned, Err: err}
	}
	return nil
}

// StripFences removes an opening fence (with its language tag) and a closing fence.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, fence) {
		rest := text[len(fence):]
		if tag := languageTag(rest); tag != "" {
			rest = rest[len(tag):]
		}
		text = rest
	}
	if strings.HasSuffix(text, fence) {
		text = text[:len(text)-len(fence)]
	}

	return strings.TrimSpace(text)
}

// languageTag returns the identifier directly after an opening fence. A run of identifier
// characters only counts as a tag when it is "json" or is followed by whitespace.
func languageTag(rest string) string {
	end := 0
	for end < len(rest) && isTagChar(rest[end]) {
		end++
	}
	if end == 0 {
		return ""
	}
	tag := rest[:end]
	if strings.EqualFold(tag, "json") {
		return tag
	}
	if end == len(rest) || unicode.IsSpace(rune(rest[end])) {
		return tag
	}
	return ""
}

func isTagChar(b byte) bool {
	return b == '_' || b == '-' || b == '+' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
