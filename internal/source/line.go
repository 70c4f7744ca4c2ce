package source

// Line accumulates cleaned characters for one line, folding each run of
// whitespace into a single space. Characters added with AppendNonspace are
// kept as they are, which is how literal contents survive untouched.
type Line struct {
	parts         []rune
	trailingSpace bool
}

// AppendChar adds c, dropping it if it is whitespace and the line already
// ends in a space.
func (l *Line) AppendChar(c rune) {
	if !IsWhitespace(c) {
		l.parts = append(l.parts, c)
		l.trailingSpace = false
		return
	}
	l.AppendSpace()
}

// AppendSpace makes the line end in exactly one space.
func (l *Line) AppendSpace() {
	if !l.trailingSpace {
		l.parts = append(l.parts, ' ')
		l.trailingSpace = true
	}
}

// AppendNonspace adds c verbatim, whitespace or not.
func (l *Line) AppendNonspace(c rune) {
	l.parts = append(l.parts, c)
	l.trailingSpace = false
}

// Join appends the contents of other, merging a leading space of other into
// a trailing space of l.
func (l *Line) Join(other *Line) {
	if len(other.parts) == 0 {
		return
	}
	if other.parts[0] == ' ' && l.trailingSpace {
		l.parts = append(l.parts, other.parts[1:]...)
	} else {
		l.parts = append(l.parts, other.parts...)
	}
	l.trailingSpace = other.trailingSpace
}

// Category classifies the current contents.
func (l *Line) Category() Category {
	switch {
	case len(l.parts) == 0:
		return Blank
	case len(l.parts) == 1 && l.parts[0] == ' ':
		return Blank
	case l.parts[0] == '#':
		return Directive
	case len(l.parts) >= 2 && l.parts[0] == ' ' && l.parts[1] == '#':
		return Directive
	default:
		return Code
	}
}

// Len returns the number of stored characters.
func (l *Line) Len() int {
	return len(l.parts)
}

// String returns the contents without resetting the line.
func (l *Line) String() string {
	return string(l.parts)
}

// Flush returns the contents and empties the line.
func (l *Line) Flush() string {
	s := string(l.parts)
	l.Reset()
	return s
}

// Reset empties the line.
func (l *Line) Reset() {
	l.parts = l.parts[:0]
	l.trailingSpace = false
}
