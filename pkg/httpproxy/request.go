package httpproxy

import (
	"bufio"
	"bytes"
	"fmt"
)

const (
	// MaxURLLen bounds the request-line URL: URLs of this length or longer
	// are rejected, matching the original cache's fixed URL buffer.
	MaxURLLen = 1024
	// MaxHostLen bounds the Host header value: values of this length or
	// longer are rejected, matching the original cache's fixed host buffer.
	MaxHostLen = 50
)

// Request is the narrow slice of an HTTP/1.x request the cache cares about:
// the request line's three tokens, the Host header, and the raw bytes to
// replay verbatim to the upstream.
type Request struct {
	Method  string
	URL     string
	Version string
	Host    string
	Raw     []byte
}

// ReadRequest reads a request line and headers (up to the blank line) from
// r, validating the narrow contract in spec §6: the request line must be
// "METHOD SP URL SP VERSION CRLF" with URL shorter than MaxURLLen, and a
// Host header shorter than MaxHostLen must be present. No other header is
// interpreted. The raw bytes read (request line + headers + trailing blank
// line) are preserved verbatim in Raw for replay to the upstream.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	var raw bytes.Buffer

	line, err := readCRLFLine(r, &raw)
	if err != nil {
		return nil, fmt.Errorf("httpproxy: reading request line: %w", err)
	}
	method, url, version, ok := parseRequestLine(line)
	if !ok || len(url) >= MaxURLLen {
		return nil, ErrParseRejected
	}

	var host string
	hostSeen := false
	for {
		hline, err := readCRLFLine(r, &raw)
		if err != nil {
			return nil, fmt.Errorf("httpproxy: reading header: %w", err)
		}
		if len(hline) == 0 {
			break
		}
		if h, ok := parseHostHeader(hline); ok {
			if len(h) >= MaxHostLen {
				return nil, ErrParseRejected
			}
			host = h
			hostSeen = true
		}
	}
	if !hostSeen {
		return nil, ErrParseRejected
	}

	return &Request{
		Method:  method,
		URL:     url,
		Version: version,
		Host:    host,
		Raw:     append([]byte(nil), raw.Bytes()...),
	}, nil
}

// readCRLFLine reads one line up to and including CRLF, appends everything
// read (including the CRLF) to raw, and returns the line without the
// trailing CRLF.
func readCRLFLine(r *bufio.Reader, raw *bytes.Buffer) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	raw.Write(line)
	line = bytes.TrimRight(line, "\r\n")
	return line, nil
}

// parseRequestLine splits "METHOD SP URL SP VERSION" into its three tokens.
func parseRequestLine(line []byte) (method, url, version string, ok bool) {
	first := bytes.IndexByte(line, ' ')
	if first < 0 {
		return "", "", "", false
	}
	rest := line[first+1:]
	second := bytes.IndexByte(rest, ' ')
	if second < 0 {
		return "", "", "", false
	}
	method = string(line[:first])
	url = string(rest[:second])
	version = string(rest[second+1:])
	if method == "" || url == "" || version == "" {
		return "", "", "", false
	}
	return method, url, version, true
}

// parseHostHeader recognizes a "Host: <value>" line, case-insensitively on
// the header name, and returns the trimmed value.
func parseHostHeader(line []byte) (string, bool) {
	const prefix = "Host:"
	if len(line) <= len(prefix) {
		return "", false
	}
	if !bytes.EqualFold(line[:len(prefix)], []byte(prefix)) {
		return "", false
	}
	return string(bytes.TrimSpace(line[len(prefix):])), true
}
