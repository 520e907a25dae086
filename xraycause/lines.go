package xraycause

import "strings"

// lineReader splits text on '\n', dropping a trailing '\r' from each
// line. A final newline does not produce an empty last line.
type lineReader struct {
	rest string
}

func newLineReader(s string) *lineReader {
	return &lineReader{rest: s}
}

func (r *lineReader) next() (string, bool) {
	line, ok := r.peek()
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(r.rest, '\n'); i >= 0 {
		r.rest = r.rest[i+1:]
	} else {
		r.rest = ""
	}
	return line, true
}

func (r *lineReader) peek() (string, bool) {
	if r.rest == "" {
		return "", false
	}
	line := r.rest
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSuffix(line, "\r"), true
}
