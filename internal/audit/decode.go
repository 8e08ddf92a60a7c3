package audit

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xef, 0xbb, 0xbf}
	utf16LEBOM = []byte{0xff, 0xfe}
	utf16BEBOM = []byte{0xfe, 0xff}
)

// Decode converts raw bytes to text without ever failing.
//
// A leading byte order mark selects UTF-8 or UTF-16 and is stripped.
// Without one the bytes are read as UTF-8. Byte sequences that are not valid
// in the chosen encoding are dropped, so surrounding text stays contiguous.
// A validly encoded U+FFFD in UTF-8 input is kept.
func Decode(data []byte) string {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		return decodeUTF16(data)
	}
	return strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), "")
}

// decodeUTF16 decodes BOM-prefixed UTF-16. The decoder turns malformed code
// units into U+FFFD, which are then removed.
func decodeUTF16(data []byte) string {
	t := transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)

	s, _, err := transform.String(t, string(data))
	if err != nil {
		return ""
	}
	return s
}

// Digest returns the SHA3-256 hex digest of content.
func Digest(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
