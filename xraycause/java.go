package xraycause

import (
	"strconv"
	"strings"

	"github.com/xoplog/xray-go/xrayid"
)

const javaCausedBy = "Caused by: "

// javaDialect reads traces in the format of Throwable.printStackTrace:
//
//	java.lang.IllegalStateException: outer
//		at com.example.Main.run(Main.java:10)
//	Caused by: java.io.IOException: disk
//	full
//		at java.base/java.io.FileInputStream.open(FileInputStream.java:219)
//		... 3 more
//
// Only frames indented by a single tab belong to the current record. Deeper
// blocks such as "\tSuppressed:" and their "\t\tat" frames are skipped.
type javaDialect struct{}

func (javaDialect) Parse(head Record, stacktrace string, ids xrayid.Generator) []Record {
	records := []Record{head}
	cur := 0
	r := newLineReader(stacktrace)
	// first line repeats the exception type and message
	if _, ok := r.next(); !ok {
		return records
	}
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if f, ok := parseJavaFrame(line); ok {
			records[cur].Stack = append(records[cur].Stack, f)
			continue
		}
		if !strings.HasPrefix(line, javaCausedBy) {
			continue
		}
		next := Record{ID: ids.NewID().String()}
		rest := line[len(javaCausedBy):]
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			next.Type = rest[:i]
			msg := strings.TrimPrefix(rest[i+1:], " ")
			for {
				more, ok := r.peek()
				if !ok || strings.HasPrefix(more, "\t") || strings.HasPrefix(more, javaCausedBy) {
					break
				}
				msg += "\n" + more
				r.next()
			}
			next.Message = msg
		} else {
			next.Type = rest
		}
		records[cur].Cause = next.ID
		records = append(records, next)
		cur++
	}
	return records
}

// parseJavaFrame handles "\tat label(path:line)". The label may carry a
// module or class loader qualifier ("java.base/", "app//") which is dropped.
func parseJavaFrame(line string) (Frame, bool) {
	s, ok := strings.CutPrefix(line, "\tat ")
	if !ok || !strings.HasSuffix(s, ")") {
		return Frame{}, false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return Frame{}, false
	}
	label := s[:open]
	if i := strings.IndexByte(label, '/'); i >= 0 {
		label = strings.TrimLeft(label[i+1:], "/")
	}
	f := Frame{
		Label:   label,
		Path:    s[open+1 : len(s)-1],
		HasPath: true,
	}
	if i := strings.LastIndexByte(f.Path, ':'); i >= 0 {
		f.Line = atoi(f.Path[i+1:])
		f.Path = f.Path[:i]
	}
	return f, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
