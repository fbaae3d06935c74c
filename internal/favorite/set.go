// Package favorite models the user's favorite channels as a set keyed by URL.
package favorite

import (
	"github.com/samber/lo"

	"github.com/alorle/iptv-viewer/internal/channel"
)

// Set is an immutable, insertion-ordered collection of favorite channels.
// Two channels are the same favorite iff their URLs are equal, even when
// other fields differ.
type Set struct {
	channels []channel.Channel
}

// NewSet builds a set from persisted channels. When several channels share a
// URL only the first one is kept.
func NewSet(channels ...channel.Channel) Set {
	return Set{channels: lo.UniqBy(channels, channel.Channel.URL)}
}

// Channels returns a copy of the favorites in insertion order.
func (s Set) Channels() []channel.Channel {
	out := make([]channel.Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// Len returns the number of favorites.
func (s Set) Len() int {
	return len(s.channels)
}

// Contains reports whether url is a favorite.
func (s Set) Contains(url string) bool {
	return lo.ContainsBy(s.channels, func(ch channel.Channel) bool {
		return ch.URL() == url
	})
}

// URLs returns the favorite URLs in insertion order.
func (s Set) URLs() []string {
	return lo.Map(s.channels, func(ch channel.Channel, _ int) string {
		return ch.URL()
	})
}

// Equal reports whether both sets hold the same URLs, ignoring order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	return lo.EveryBy(s.channels, func(ch channel.Channel) bool {
		return other.Contains(ch.URL())
	})
}

// IsFavorite reports whether ch is in set, comparing URLs only.
func IsFavorite(set Set, ch channel.Channel) bool {
	return set.Contains(ch.URL())
}

// Toggle returns a new set with ch added when it was not a favorite, or with
// every entry sharing its URL removed when it was. The input set is left
// untouched.
func Toggle(set Set, ch channel.Channel) Set {
	if IsFavorite(set, ch) {
		return Set{channels: lo.Reject(set.channels, func(fav channel.Channel, _ int) bool {
			return fav.SameURL(ch)
		})}
	}

	channels := make([]channel.Channel, 0, len(set.channels)+1)
	channels = append(channels, set.channels...)
	channels = append(channels, ch)
	return Set{channels: channels}
}
