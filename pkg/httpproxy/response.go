package httpproxy

import "bytes"

var (
	http10OK     = []byte("HTTP/1.0 200 OK")
	http11OKStem = []byte("HTTP/1.1 200")
)

// IsCacheableStatusLine inspects the first chunk of an upstream response and
// reports whether it opens with a status line the cache is willing to
// store: "HTTP/1.0 200 OK" or the "HTTP/1.1 200" prefix (spec §6). Only the
// prefix of chunk is examined; no other HTTP semantics are parsed.
func IsCacheableStatusLine(chunk []byte) bool {
	return bytes.HasPrefix(chunk, http10OK) || bytes.HasPrefix(chunk, http11OKStem)
}
