package model

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler converts a field label into display text. It splits on
// underscores/dashes and camelCase boundaries. Positional labels of tuple
// members and method arguments become "Item N" counting from one, and
// hashed labels of the form _123_ are kept verbatim.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 0 {
		return "Item " + strconv.Itoa(n+1)
	}
	if isHashedLabel(name) {
		return name
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		for _, part := range splitCamel(word) {
			segments = append(segments, titleCase(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) []string {
	var parts []string
	runes := []rune(input)
	start := 0
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes[i-1], runes[i]) {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

func isBoundary(prev, r rune) bool {
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	first, size := utf8.DecodeRuneInString(lower)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(first)) + lower[size:]
}

func isHashedLabel(name string) bool {
	if len(name) < 3 || name[0] != '_' || name[len(name)-1] != '_' {
		return false
	}
	for _, r := range name[1 : len(name)-1] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
