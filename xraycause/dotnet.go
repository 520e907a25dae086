package xraycause

import (
	"strconv"
	"strings"

	"github.com/xoplog/xray-go/xrayid"
)

// dotnetDialect reads traces in the format of Exception.ToString:
//
//	System.InvalidOperationException: boom
//	   at App.Worker.Run() in /src/App/Worker.cs:line 42
//	   at App.Program.Main(String[] args)
//
// Inner exceptions are not split out; the result is always one record.
type dotnetDialect struct{}

func (dotnetDialect) Parse(head Record, stacktrace string, _ xrayid.Generator) []Record {
	r := newLineReader(stacktrace)
	if _, ok := r.next(); !ok {
		return []Record{head}
	}
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if f, ok := parseDotnetFrame(line); ok {
			head.Stack = append(head.Stack, f)
		}
	}
	return []Record{head}
}

func parseDotnetFrame(line string) (Frame, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "at ") {
		return Frame{}, false
	}
	if i := strings.Index(s, " in "); i >= 0 {
		f := Frame{
			Label:   s[3:i],
			Path:    s[i+len(" in "):],
			HasPath: true,
		}
		if c := strings.LastIndexByte(f.Path, ':'); c >= 0 {
			suffix := f.Path[c+1:]
			if n, ok := strings.CutPrefix(suffix, "line"); ok {
				f.Line = atoi(n)
				f.Path = f.Path[:c]
			} else if n, err := strconv.Atoi(suffix); err == nil {
				// a drive letter such as "C:\src" is left alone
				f.Line = n
				f.Path = f.Path[:c]
			}
		}
		return f, true
	}
	if strings.HasSuffix(s, ")") {
		return Frame{Label: s[3:]}, true
	}
	return Frame{}, false
}
