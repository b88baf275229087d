// Package extract finds error-count markers in log text.
//
// The two entry points differ. The line scanner
// requires the literal phrase "number of errors", trims every line and drops
// counts of zero. FirstMatch looks at the whole content as one unit, accepts any
// "errors: N" occurrence and returns the captured digits untouched.
package extract

import "regexp"

// Marker grammars.
const (
	// LineMarker is applied to each trimmed line by the line scanner.
	LineMarker = `number of errors\s*:\s*(\d+)`
	// ContentMarker is applied to the whole content by FirstMatch.
	ContentMarker = `errors\s*:\s*(\d+)`
)

var (
	lineMarker    = regexp.MustCompile(LineMarker)
	contentMarker = regexp.MustCompile(ContentMarker)
)

// Match is a single error-count declaration found on one line.
type Match struct {
	// Count is the declared number of errors. Always greater than zero.
	Count int `json:"count"`
	// Line is the source line with leading and trailing whitespace removed.
	Line string `json:"line"`
	// LineNum is the 1-based physical line number in the scanned content.
	LineNum int `json:"line_num"`
}
