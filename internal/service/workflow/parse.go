package workflow

import (
	"bufio"
	"strings"
)

// extractJSON pulls the first JSON array or object out of provider text,
// tolerating markdown code fences and surrounding prose. Returns "" when
// no bracketed payload is present.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)

	// Prefer fenced blocks when present.
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		} else {
			s = strings.TrimSpace(rest)
		}
	}

	arrStart := strings.Index(s, "[")
	objStart := strings.Index(s, "{")

	start, opener, closer := -1, byte('{'), byte('}')
	switch {
	case arrStart >= 0 && (objStart < 0 || arrStart < objStart):
		start, opener, closer = arrStart, '[', ']'
	case objStart >= 0:
		start = objStart
	default:
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unbalanced payload: hand back the tail and let json.Unmarshal reject it.
	return s[start:]
}

// extractKeyValueBlocks recovers loosely structured records from plain
// text, splitting on numbered list markers and collecting "key: value"
// lines. Used when the provider ignored the JSON formatting instruction.
func extractKeyValueBlocks(text string) []map[string]string {
	var blocks []map[string]string
	current := map[string]string{}

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = map[string]string{}
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if startsNewBlock(line) {
			flush()
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = normalizeKey(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		current[key] = value
	}
	flush()

	return blocks
}

// startsNewBlock reports whether the line looks like a numbered list item
// ("1.", "2)", "Idea 3:").
func startsNewBlock(line string) bool {
	trimmed := strings.TrimLeft(line, "#*- ")
	trimmed = strings.TrimPrefix(trimmed, "Idea ")
	trimmed = strings.TrimPrefix(trimmed, "idea ")
	if trimmed == "" {
		return false
	}
	if trimmed[0] < '0' || trimmed[0] > '9' {
		return false
	}
	rest := strings.TrimLeft(trimmed, "0123456789")
	return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")") || strings.HasPrefix(rest, ":")
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimLeft(key, "0123456789.)- *#")
	key = strings.TrimSpace(key)
	return strings.ReplaceAll(key, " ", "_")
}
