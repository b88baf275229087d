package extract

import (
	"strconv"
	"strings"
)

// lineCutset is the whitespace stripped from both ends of a line.
const lineCutset = " \t\r\n"

// ParseLine applies LineMarker to a single raw line.
// It reports false for blank lines, lines without the marker, a count of zero,
// and captured numerals too large for an int.
func ParseLine(raw string) (Match, bool) {
	line := strings.Trim(raw, lineCutset)
	if line == "" {
		return Match{}, false
	}

	groups := lineMarker.FindStringSubmatch(line)
	if len(groups) < 2 {
		return Match{}, false
	}

	count, err := strconv.Atoi(groups[1])
	if err != nil || count <= 0 {
		return Match{}, false
	}

	return Match{Count: count, Line: line}, true
}

// FirstMatch searches content as a single unit for ContentMarker and returns the
// first captured digit string. Line boundaries, trimming and zero counts play no
// part here.
func FirstMatch(content string) (string, bool) {
	groups := contentMarker.FindStringSubmatch(content)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}
