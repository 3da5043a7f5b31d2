package intent

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Drive-letter paths run to end of line so spaces inside Windows paths
	// survive; quotes and trailing punctuation are trimmed afterwards.
	winPathRe = regexp.MustCompile(`[A-Za-z]:\\[^\n\r]*`)
	// Rooted Unix paths stop at whitespace. The leading boundary keeps URL
	// components like "://host/x" from matching.
	unixPathRe = regexp.MustCompile("(?:^|[\\s\"'`(])(/[A-Za-z0-9._-][A-Za-z0-9._/-]*)")
)

// DetectPath scans text for an absolute filesystem path, independent of any
// JSON structure. Windows drive-letter paths are preferred; rooted Unix
// paths come second.
func DetectPath(text string) (string, bool) {
	if m := winPathRe.FindString(text); m != "" {
		return trimPath(m), true
	}
	if m := unixPathRe.FindStringSubmatch(text); m != nil {
		return trimPath(m[1]), true
	}
	return "", false
}

// PayloadForPath synthesizes a filesystem tool call for a detected raw path:
// read for paths carrying a file extension, list otherwise.
func PayloadForPath(path string) *Payload {
	action := "list"
	if filepath.Ext(path) != "" {
		action = "read"
	}
	return &Payload{
		Tool:       "filesystem",
		Action:     action,
		Parameters: map[string]any{"path": path},
	}
}

func trimPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	return strings.TrimRight(p, ".,;:!?)")
}
