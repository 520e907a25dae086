package xrayjson

/*

The escaping in this file is derived from https://github.com/phuslu/log

The original is subject to the following license.

MIT License

Copyright (c) 2022 Phus Lu

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

*/

import "unicode/utf8"

const hexDigits = "0123456789abcdef"

var escapes = func() (e [256]bool) {
	for c := 0; c < 0x20; c++ {
		e[c] = true
	}
	e['"'] = true
	e['\\'] = true
	e['<'] = true
	e['\''] = true
	return e
}()

// stringBody appends s as the inside of a JSON string. Invalid UTF-8 is
// replaced with U+FFFD.
func (w *Writer) stringBody(s string) {
	for i := 0; i < len(s); i++ {
		if escapes[s[i]] || s[i] >= utf8.RuneSelf {
			w.escape(s)
			return
		}
	}
	w.B = append(w.B, s...)
}

func (w *Writer) escape(s string) {
	n := len(s)
	j := 0
	if n > 0 {
		// Hint the compiler to remove bounds checks in the loop below.
		_ = s[n-1]
	}
	for i := 0; i < n; i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				w.B = append(w.B, s[j:i]...)
				w.B = append(w.B, `\ufffd`...)
				j = i + 1
			} else {
				i += size - 1
			}
			continue
		}
		if !escapes[c] {
			continue
		}
		w.B = append(w.B, s[j:i]...)
		switch c {
		case '"':
			w.B = append(w.B, '\\', '"')
		case '\\':
			w.B = append(w.B, '\\', '\\')
		case '\n':
			w.B = append(w.B, '\\', 'n')
		case '\r':
			w.B = append(w.B, '\\', 'r')
		case '\t':
			w.B = append(w.B, '\\', 't')
		default:
			w.B = append(w.B, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		j = i + 1
	}
	w.B = append(w.B, s[j:]...)
}
