package source

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textReader normalizes dataset bytes to UTF-8. A byte order mark selects
// UTF-8 or UTF-16 decoding and is dropped; without one the input is read as
// UTF-8. Invalid sequences become U+FFFD instead of failing the decode.
//
// Exports from spreadsheet tools on Windows commonly carry a BOM, which
// encoding/json rejects.
func textReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
