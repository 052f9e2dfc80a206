package utils

import (
	"io"
	"strings"
)

// BodyToSingleLine reads the body and converts it
// to a single line string for logging purposes.
func BodyToSingleLine(body io.Reader) (s string) {
	const maxBytes = 500
	b, err := io.ReadAll(io.LimitReader(body, maxBytes))
	if err != nil {
		return ""
	}
	return ToSingleLine(string(b))
}

func ToSingleLine(s string) (line string) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Join(strings.Fields(s), " ")
}
