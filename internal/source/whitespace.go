package source

// IsWhitespace reports whether r is line-internal whitespace. The set is
// every code point matched by the `\s` class of a Unicode regular
// expression engine, line terminators included.
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f',
		'\x1c', '\x1d', '\x1e', '\x1f',
		'\u0085', '\u00a0', '\u1680',
		'\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
		'\u2006', '\u2007', '\u2008', '\u2009', '\u200a',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000':
		return true
	}
	return false
}
