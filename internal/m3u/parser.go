package m3u

import (
	"github.com/alorle/iptv-viewer/internal/channel"
)

// Stats summarizes one parse pass.
type Stats struct {
	Lines      int // non-blank lines
	Directives int
	Comments   int
	Channels   int
	Dropped    int // directives discarded without a locator
}

// Parse turns playlist text into channels in source order.
// Empty text yields an empty playlist. Parsing never fails; malformed
// input only makes the result shorter.
func Parse(text string) []channel.Channel {
	channels, _ := ParseWithStats(text)
	return channels
}

// ParseAny parses v when it is a string. Any other value, byte slices
// included, yields an empty playlist.
func ParseAny(v any) []channel.Channel {
	text, ok := v.(string)
	if !ok {
		return []channel.Channel{}
	}
	return Parse(text)
}

// ParseWithStats is Parse plus counters about what was seen.
func ParseWithStats(text string) ([]channel.Channel, Stats) {
	channels := []channel.Channel{}
	var stats Stats

	if text == "" {
		return channels, stats
	}

	var b builder
	for _, line := range splitLines(text) {
		kind := Classify(line)
		if kind != LineBlank {
			stats.Lines++
		}

		switch kind {
		case LineDirective:
			if b.hasPending() {
				stats.Dropped++
			}
			stats.Directives++
			b.directive(ExtractDirective(directivePayload(line)))
		case LineComment:
			stats.Comments++
		case LineLocator:
			if ch, ok := b.locator(line); ok {
				channels = append(channels, ch)
			}
		}
	}

	if b.hasPending() {
		stats.Dropped++
	}
	stats.Channels = len(channels)

	return channels, stats
}
