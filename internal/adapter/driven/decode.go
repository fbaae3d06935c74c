package driven

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ulikunitz/xz"

	"github.com/alorle/iptv-viewer/internal/port/driven"
)

const byteOrderMark = "\ufeff"

// decodePlaylist reads a whole playlist from r, transparently decompressing
// gzip, bzip2 and xz content detected by its magic bytes. At most maxBytes of
// decompressed text are accepted. A leading UTF-8 byte order mark is dropped.
func decodePlaylist(r io.Reader, maxBytes int64) (string, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "peeking playlist header")
	}

	var reader io.Reader = br

	switch {
	case len(header) >= 2 && header[0] == 0x1f && header[1] == 0x8b:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return "", errors.Wrap(err, "creating gzip reader")
		}
		defer gzr.Close()
		reader = gzr

	case len(header) >= 3 && header[0] == 'B' && header[1] == 'Z' && header[2] == 'h':
		reader = bzip2.NewReader(br)

	case len(header) >= 6 && header[0] == 0xfd && header[1] == '7' && header[2] == 'z' && header[3] == 'X' && header[4] == 'Z' && header[5] == 0x00:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return "", errors.Wrap(err, "creating xz reader")
		}
		reader = xzr
	}

	// One extra byte tells "exactly at the limit" apart from "over it".
	data, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "reading playlist")
	}
	if int64(len(data)) > maxBytes {
		return "", errors.Wrapf(driven.ErrPlaylistTooLarge, "limit is %d bytes", maxBytes)
	}

	return strings.TrimPrefix(string(data), byteOrderMark), nil
}
