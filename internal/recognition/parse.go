package recognition

import "strings"

// ParseObjectNames parses a plain-text model response, one object name per
// line. List markers are stripped and preamble/closing chatter is skipped.
func ParseObjectNames(raw string) []string {
	lines := strings.Split(raw, "\n")
	names := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = stripListMarker(line)
		if line == "" {
			continue
		}

		// Skip common headers or non-item lines
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") ||
			strings.HasPrefix(line, "I can") || strings.HasPrefix(line, "Based on") ||
			strings.HasSuffix(line, ":") {
			continue
		}

		names = append(names, line)
	}

	return names
}

// stripListMarker removes a leading bullet or "1." style numbering.
func stripListMarker(line string) string {
	line = strings.TrimLeft(line, "-*• \t")
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}
