package xdb

import "strings"

// NormalizePath converts an archive or user path to fs.ValidPath format.
//
// It performs the following transformations:
//   - Converts backslashes to slashes: `textures\act` → "textures/act"
//   - Strips leading and trailing slashes: "/textures/" → "textures"
//   - Collapses consecutive slashes: "textures//act" → "textures/act"
//   - Converts empty string to root: "" → "."
//
// Paths containing "." or ".." elements are preserved and are rejected
// later via fs.ValidPath.
func NormalizePath(p string) string {
	p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
	if p == "" {
		return "."
	}

	parts := strings.Split(p, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return "."
	}
	return strings.Join(result, "/")
}

// lowerASCII lower-cases ASCII letters only, leaving other bytes intact so
// non-UTF-8 names survive unchanged.
func lowerASCII(s string) string {
	i := 0
	for ; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			break
		}
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for j := i; j < len(b); j++ {
		if c := b[j]; c >= 'A' && c <= 'Z' {
			b[j] = c + 'a' - 'A'
		}
	}
	return string(b)
}
