// Package unicode provides the golang.org/x/text/transform.Transformer pair
// the field codec uses to move CESU-8 encoded wire bytes in and out of Go's
// native UTF-8 strings.
package unicode

import (
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/hdbnet/scnp/internal/unicode/cesu8"
)

// Utf8ToCesu8Transformer transforms UTF-8 input into CESU-8 output.
var Utf8ToCesu8Transformer transform.Transformer = utf8ToCesu8{}

// Cesu8ToUtf8Transformer transforms CESU-8 input into UTF-8 output.
var Cesu8ToUtf8Transformer transform.Transformer = cesu8ToUtf8{}

type utf8ToCesu8 struct{ transform.NopResetter }

func (utf8ToCesu8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
		}
		n := cesu8.RuneLen(r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += cesu8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

type cesu8ToUtf8 struct{ transform.NopResetter }

func (cesu8ToUtf8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && nSrc+cesu8.CESUMax > len(src) {
			// a surrogate pair might still be incomplete
			r, size := cesu8.DecodeRune(src[nSrc:])
			if size != 6 && src[nSrc] == 0xed && (nSrc+1 == len(src) || src[nSrc+1]&0xf0 == 0xa0) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			n := utf8.RuneLen(r)
			if nDst+n > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += utf8.EncodeRune(dst[nDst:], r)
			nSrc += size
			continue
		}
		r, size := cesu8.DecodeRune(src[nSrc:])
		n := utf8.RuneLen(r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}
