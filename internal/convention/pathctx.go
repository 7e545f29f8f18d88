package convention

import "regexp"

// PathContext is the course phase and level encoded in a directory path.
type PathContext struct {
	Code  string // e.g. "mbP3L24"
	Phase string // "3"
	Level string // "24"
}

// The last "mandarin blueprint<sep>mbP<phase>L<level>" occurrence wins.
var pathContextRe = regexp.MustCompile(`^.*(?i:mandarin blueprint).(mbP(\d{1,2})L(\d{1,3}))`)

// ParsePathContext extracts the phase/level code from an absolute path.
func ParsePathContext(path string) (PathContext, bool) {
	m := pathContextRe.FindStringSubmatch(path)
	if m == nil {
		return PathContext{}, false
	}
	return PathContext{Code: m[1], Phase: m[2], Level: m[3]}, true
}
