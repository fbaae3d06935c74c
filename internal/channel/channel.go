package channel

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/mo"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("channel title cannot be empty")
	ErrEmptyURL        = errors.New("channel url cannot be empty")
	ErrChannelNotFound = errors.New("channel not found")
)

// Channel represents one playable entry of a playlist.
// Title and URL are always set; logo, id and group are optional and
// keep the distinction between "absent" and "present but empty".
type Channel struct {
	title string
	url   string
	logo  mo.Option[string]
	id    mo.Option[string]
	group mo.Option[string]
}

// NewChannel creates a new Channel with the given title and resource locator.
// Both values are trimmed. Returns ErrEmptyURL or ErrEmptyTitle when either
// one is blank.
func NewChannel(title, url string) (Channel, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Channel{}, ErrEmptyURL
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Channel{}, ErrEmptyTitle
	}

	return Channel{
		title: title,
		url:   url,
		logo:  mo.None[string](),
		id:    mo.None[string](),
		group: mo.None[string](),
	}, nil
}

// ReconstructChannel rebuilds a Channel from persisted data without validation.
func ReconstructChannel(title, url string, logo, id, group mo.Option[string]) Channel {
	return Channel{title: title, url: url, logo: logo, id: id, group: group}
}

// Title returns the display name.
func (c Channel) Title() string {
	return c.title
}

// URL returns the resource locator. Two channels are the same favorite iff
// their URLs are equal.
func (c Channel) URL() string {
	return c.url
}

// Logo returns the optional icon locator.
func (c Channel) Logo() mo.Option[string] {
	return c.logo
}

// ID returns the optional source identifier. It is not unique across a playlist.
func (c Channel) ID() mo.Option[string] {
	return c.id
}

// Group returns the optional category label.
func (c Channel) Group() mo.Option[string] {
	return c.group
}

// WithLogo returns a copy of the channel with the logo set.
func (c Channel) WithLogo(logo mo.Option[string]) Channel {
	c.logo = logo
	return c
}

// WithID returns a copy of the channel with the id set.
func (c Channel) WithID(id mo.Option[string]) Channel {
	c.id = id
	return c
}

// WithGroup returns a copy of the channel with the group set.
func (c Channel) WithGroup(group mo.Option[string]) Channel {
	c.group = group
	return c
}

// SameURL reports whether both channels point at the same resource.
func (c Channel) SameURL(other Channel) bool {
	return c.url == other.url
}
