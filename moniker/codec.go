// Package moniker implements the opaque symbol-identifier codec:
// parsing and constructing `<path>:<name>` identifiers where a literal `:`
// inside path is escaped as `::`.
package moniker

import "strings"

// Parsed is the decomposition of a moniker identifier into its optional
// container path and its name.
type Parsed struct {
	Path string
	Name string
}

// Create builds an identifier from a name and an optional path, escaping any
// `:` in path as `::`. If path is empty, the identifier is the name alone.
func Create(name, path string) string {
	if path == "" {
		return name
	}
	return escape(path) + ":" + name
}

// Parse splits an identifier into (name, path) by finding the last
// unescaped `:` separator and unescaping the path portion. This is the
// inverse of Create: Create(p.Name, p.Path) round-trips to the same
// identifier whenever path contained escaped colons.
func Parse(identifier string) Parsed {
	idx := lastUnescapedColon(identifier)
	if idx < 0 {
		return Parsed{Name: identifier}
	}

	return Parsed{
		Path: unescape(identifier[:idx]),
		Name: identifier[idx+1:],
	}
}

// lastUnescapedColon returns the byte index of the last `:` in s that is not
// part of an escaped `::` pair, scanning right to left. It returns -1 if no
// such separator exists.
func lastUnescapedColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != ':' {
			continue
		}

		// Count the run of consecutive ':' ending at i (scanning left).
		run := 1
		for j := i - 1; j >= 0 && s[j] == ':'; j-- {
			run++
		}

		if run%2 == 0 {
			// An even-length run of colons immediately preceding i is
			// entirely escaped pairs; i itself belongs to one of those
			// pairs, not a separator. Skip over the whole run.
			i -= run - 1
			continue
		}

		return i
	}

	return -1
}

func escape(path string) string {
	return strings.ReplaceAll(path, ":", "::")
}

func unescape(path string) string {
	return strings.ReplaceAll(path, "::", ":")
}
