package m3u

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alorle/iptv-viewer/internal/channel"
)

func TestEncoder_Encode(t *testing.T) {
	t.Run("empty playlist writes only the header", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewEncoder().Encode(&buf))

		assert.Equal(t, "#EXTM3U\n", buf.String())
	})

	t.Run("writes present attributes only", func(t *testing.T) {
		one := mustChannel(t, "Channel One", "http://example.com/one.m3u8").
			WithID(mo.Some("s1")).
			WithGroup(mo.Some("News"))
		two := mustChannel(t, "Channel Two", "http://example.com/two.mp4")

		enc := NewEncoder()
		enc.AddChannels([]channel.Channel{one, two})

		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf))

		want := "#EXTM3U\n" +
			"#EXTINF:-1 tvg-id=\"s1\" group-title=\"News\",Channel One\n" +
			"http://example.com/one.m3u8\n" +
			"#EXTINF:-1,Channel Two\n" +
			"http://example.com/two.mp4\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("parse of encoded output yields the same channels", func(t *testing.T) {
		original := Parse(twoChannels + "\n#EXTINF:-1 group-title=\"\",Empty Group\nhttp://example.com/e\n")

		enc := NewEncoder()
		for _, ch := range original {
			enc.AddChannel(ch)
		}

		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf))

		assert.Equal(t, original, Parse(buf.String()))
	})

	t.Run("replaces double quotes inside values", func(t *testing.T) {
		ch := mustChannel(t, "T", "http://t").WithGroup(mo.Some(`say "hi"`))

		enc := NewEncoder()
		enc.AddChannel(ch)

		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf))

		assert.True(t, strings.Contains(buf.String(), `group-title="say 'hi'"`))
	})

	t.Run("returns writer errors", func(t *testing.T) {
		enc := NewEncoder()
		enc.AddChannel(mustChannel(t, "T", "http://t"))

		err := enc.Encode(failingWriter{})
		assert.Error(t, err)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}
