package m3u

import (
	"github.com/alorle/iptv-viewer/internal/channel"
)

// builder accumulates the pending directive until its locator line arrives.
// It is scoped to a single Parse call.
type builder struct {
	pending *Directive
}

// directive replaces the pending directive. An unterminated previous one is
// dropped: the last directive before a locator wins.
func (b *builder) directive(d Directive) {
	b.pending = &d
}

// locator completes the pending record with url and resets the builder.
//
// Without a pending title the locator doubles as the title, so a bare
// locator line still yields a record. Attributes of a title-less pending
// directive are kept.
func (b *builder) locator(url string) (channel.Channel, bool) {
	d := Directive{}
	if b.pending != nil {
		d = *b.pending
	}
	b.pending = nil

	title := d.Title
	if title == "" {
		title = url
	}

	ch, err := channel.NewChannel(title, url)
	if err != nil {
		return channel.Channel{}, false
	}

	return ch.WithLogo(d.Logo).WithID(d.ID).WithGroup(d.Group), true
}

// hasPending reports whether a directive is waiting for its locator.
func (b *builder) hasPending() bool {
	return b.pending != nil
}
