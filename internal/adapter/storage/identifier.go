package storage

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// validIdentifier reports whether name is safe to splice into SQL as a table name.
func validIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
