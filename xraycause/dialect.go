package xraycause

import (
	"strings"

	"github.com/xoplog/xray-go/xrayid"
)

// Dialect parses the exception.stacktrace text of one language. head is
// the record built from the exception event's type and message; Parse
// returns head (with its Stack filled in) followed by any nested causes
// it found. Each record's Cause names the ID of the record after it.
type Dialect interface {
	Parse(head Record, stacktrace string, ids xrayid.Generator) []Record
}

const (
	LanguageJava   = "java"
	LanguageDotnet = "dotnet"
)

// DefaultLanguage is assumed when a span carries no language hint.
const DefaultLanguage = LanguageDotnet

var dialects = map[string]Dialect{
	LanguageJava:   javaDialect{},
	LanguageDotnet: dotnetDialect{},
}

// DialectFor returns the parser for a telemetry.sdk.language value.
func DialectFor(language string) (Dialect, bool) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(language))]
	return d, ok
}
