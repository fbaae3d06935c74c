// Package m3u parses extended M3U playlist text into channel records and
// encodes channel records back into playlist text.
package m3u

import "strings"

const (
	// HeaderPrefix opens an extended M3U document. The parser treats it as a comment.
	HeaderPrefix = "#EXTM3U"
	// DirectivePrefix introduces the metadata of one channel.
	DirectivePrefix = "#EXTINF"
)

// LineKind classifies one logical playlist line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineDirective
	LineComment
	LineLocator
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineDirective:
		return "directive"
	case LineComment:
		return "comment"
	case LineLocator:
		return "locator"
	default:
		return "unknown"
	}
}

// Classify returns the kind of an already trimmed line.
// Any line starting with #EXTINF is a directive, whatever delimiter follows.
func Classify(line string) LineKind {
	switch {
	case line == "":
		return LineBlank
	case strings.HasPrefix(line, DirectivePrefix):
		return LineDirective
	case strings.HasPrefix(line, "#"):
		return LineComment
	default:
		return LineLocator
	}
}

// splitLines splits text on \n, drops a trailing \r and trims each line.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	}
	return lines
}
