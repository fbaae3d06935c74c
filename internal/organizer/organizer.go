// Package organizer derives searchable, grouped and favorite-aware views from
// a playlist. Every function is pure: inputs are never mutated and nothing is
// retained between calls.
package organizer

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"github.com/alorle/iptv-viewer/internal/channel"
	"github.com/alorle/iptv-viewer/internal/favorite"
)

// DefaultGroupLabel is shown for channels without a group, or with an empty one.
const DefaultGroupLabel = "Uncategorized"

// Group is one labelled section of a grouped playlist.
type Group struct {
	Label    string
	Channels []channel.Channel
}

// Entry is a channel annotated with its favorite state.
type Entry struct {
	Channel  channel.Channel
	Favorite bool
}

// GroupView is a Group whose channels carry their favorite state.
type GroupView struct {
	Label   string
	Entries []Entry
}

// Filter returns the channels whose title contains query, ignoring case.
// An empty query returns playlist as is.
func Filter(playlist []channel.Channel, query string) []channel.Channel {
	if query == "" {
		return playlist
	}

	fold := cases.Fold()
	needle := fold.String(query)

	return lo.Filter(playlist, func(ch channel.Channel, _ int) bool {
		return strings.Contains(fold.String(ch.Title()), needle)
	})
}

// Label returns the display label of the channel's group.
func Label(ch channel.Channel) string {
	if group, ok := ch.Group().Get(); ok && group != "" {
		return group
	}
	return DefaultGroupLabel
}

// Groups splits playlist by Label. Groups appear in the order their label is
// first seen; channels keep their playlist order inside each group.
func Groups(playlist []channel.Channel) []Group {
	groups := []Group{}
	index := make(map[string]int)

	for _, ch := range playlist {
		label := Label(ch)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Channels = append(groups[i].Channels, ch)
	}

	return groups
}

// View filters playlist by query, groups the result and marks favorites.
func View(playlist []channel.Channel, favorites favorite.Set, query string) []GroupView {
	return lo.Map(Groups(Filter(playlist, query)), func(g Group, _ int) GroupView {
		return GroupView{
			Label: g.Label,
			Entries: lo.Map(g.Channels, func(ch channel.Channel, _ int) Entry {
				return Entry{Channel: ch, Favorite: favorite.IsFavorite(favorites, ch)}
			}),
		}
	})
}

// Favorites returns the playlist channels that are favorites, in playlist order.
func Favorites(playlist []channel.Channel, favorites favorite.Set) []channel.Channel {
	return lo.Filter(playlist, func(ch channel.Channel, _ int) bool {
		return favorite.IsFavorite(favorites, ch)
	})
}

// Find returns the first playlist channel with the given url.
func Find(playlist []channel.Channel, url string) (channel.Channel, bool) {
	return lo.Find(playlist, func(ch channel.Channel) bool {
		return ch.URL() == url
	})
}
