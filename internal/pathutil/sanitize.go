package pathutil

import (
	"regexp"
	"strings"
)

// DefaultMaxFilenameLength caps sanitized path segments.
const DefaultMaxFilenameLength = 100

// Regexes for cleaning filenames. Letters and digits from any script are
// kept; model titles are frequently non-ASCII.
var (
	unsafeCharsRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s.-]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename normalizes an arbitrary string into a safe path segment,
// truncated to DefaultMaxFilenameLength characters.
func SanitizeFilename(name string) string {
	return SanitizeFilenameMax(name, DefaultMaxFilenameLength)
}

// SanitizeFilenameMax removes every character that is not a letter, digit,
// underscore, whitespace, '.' or '-', collapses whitespace runs into a single
// '_', trims leading/trailing '_' and '-', and truncates to maxLength runes.
// Page text can carry path separators and traversal sequences, so a result
// consisting only of dots is rejected and returned as the empty string.
// Always returns a string; the caller must handle "" (e.g. fall back to a
// generated name).
func SanitizeFilenameMax(name string, maxLength int) string {
	s := unsafeCharsRegex.ReplaceAllString(name, "")
	s = strings.TrimSpace(s)
	s = whitespaceRegex.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")

	if maxLength > 0 {
		runes := []rune(s)
		if len(runes) > maxLength {
			s = string(runes[:maxLength])
		}
	}

	// "." and ".." (and longer dot runs) are not usable segments.
	if strings.Trim(s, ".") == "" {
		return ""
	}
	return s
}
