package m3u

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/mo"

	"github.com/alorle/iptv-viewer/internal/channel"
)

type encoder struct {
	items []channel.Channel
}

// NewEncoder returns an encoder that writes an extended M3U document.
func NewEncoder() *encoder {
	return &encoder{items: []channel.Channel{}}
}

func (p *encoder) AddChannel(item channel.Channel) {
	p.items = append(p.items, item)
}

func (p *encoder) AddChannels(items []channel.Channel) {
	p.items = append(p.items, items...)
}

// Encode writes the header followed by one directive/locator pair per channel.
// Attributes are written only when present, so parsing the output yields the
// same channels back.
func (p *encoder) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", HeaderPrefix); err != nil {
		return err
	}

	for _, item := range p.items {
		if err := encodeChannel(w, item); err != nil {
			return err
		}
	}

	return nil
}

func encodeChannel(w io.Writer, ch channel.Channel) error {
	if _, err := fmt.Fprintf(w, "%s:-1", DirectivePrefix); err != nil {
		return err
	}

	attrs := []struct {
		name  string
		value mo.Option[string]
	}{
		{AttrID, ch.ID()},
		{AttrLogo, ch.Logo()},
		{AttrGroup, ch.Group()},
	}
	for _, attr := range attrs {
		value, ok := attr.value.Get()
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", attr.name, strings.ReplaceAll(value, `"`, "'")); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, ",%s\n%s\n", ch.Title(), ch.URL()); err != nil {
		return err
	}

	return nil
}
