package source

import "github.com/pingcap/errors"

type cState uint8

const (
	cTopLevel cState = iota
	cDirective
	cDoubleQuote
	cSingleQuote
	cFoundSlash
	cBlockComment
	cBlockCommentStar
	cInlineComment
	cEscaping
)

func (s cState) String() string {
	switch s {
	case cTopLevel:
		return "TOPLEVEL"
	case cDirective:
		return "CPP_DIRECTIVE"
	case cDoubleQuote:
		return "DOUBLE_QUOTATION"
	case cSingleQuote:
		return "SINGLE_QUOTATION"
	case cFoundSlash:
		return "FOUND_SLASH"
	case cBlockComment:
		return "IN_BLOCK_COMMENT"
	case cBlockCommentStar:
		return "IN_BLOCK_COMMENT_FOUND_STAR"
	case cInlineComment:
		return "IN_INLINE_COMMENT"
	case cEscaping:
		return "ESCAPING"
	default:
		return "UNKNOWN"
	}
}

// cCleaner approximates the first translation phases of a C preprocessor:
// it merges whitespace and replaces comments with a space, keeping literal
// contents intact. State survives across physical lines until
// logicalNewline is called.
type cCleaner struct {
	state          []cState
	out            *Line
	directivesOnly bool
}

// newCCleaner returns a cleaner writing to out. With directivesOnly set,
// top-level text is passed through and only escapes and directives are
// recognised.
func newCCleaner(out *Line, directivesOnly bool) *cCleaner {
	return &cCleaner{
		state:          []cState{cTopLevel},
		out:            out,
		directivesOnly: directivesOnly,
	}
}

func (c *cCleaner) top() cState {
	return c.state[len(c.state)-1]
}

func (c *cCleaner) push(s cState) {
	c.state = append(c.state, s)
}

func (c *cCleaner) pop() cState {
	s := c.top()
	c.state = c.state[:len(c.state)-1]
	return s
}

func (c *cCleaner) reset() {
	c.state = append(c.state[:0], cTopLevel)
}

// atRest reports whether the cleaner is back in its initial state.
func (c *cCleaner) atRest() bool {
	return len(c.state) == 1 && c.state[0] == cTopLevel
}

// inBlockComment reports whether a block comment is open.
func (c *cCleaner) inBlockComment() bool {
	t := c.top()
	return t == cBlockComment || t == cBlockCommentStar
}

// closeStar pops a found-star frame, which must sit on a block comment.
func (c *cCleaner) closeStar(looking rune) error {
	c.pop()
	if c.top() != cBlockComment {
		return errors.Annotatef(ErrInconsistentState,
			"looking for '%c' to terminate non-existent block comment", looking)
	}
	return nil
}

// endPhysical is called when a physical line ends without a continuation.
// A pending '*' inside a block comment cannot pair with a '/' on the next
// line.
func (c *cCleaner) endPhysical() error {
	if c.top() == cBlockCommentStar {
		return c.closeStar('*')
	}
	return nil
}

// logicalNewline resets line-scoped state at the end of a logical line. It
// reports the quote kind when a literal was left open, which the caller
// may warn about.
func (c *cCleaner) logicalNewline() (openQuote rune, err error) {
	switch c.top() {
	case cInlineComment:
		c.reset()
		c.out.AppendSpace()
	case cFoundSlash:
		c.reset()
		c.out.AppendNonspace('/')
	case cSingleQuote:
		c.reset()
		return '\'', nil
	case cDoubleQuote:
		c.reset()
		return '"', nil
	case cBlockCommentStar:
		return 0, c.closeStar('/')
	case cDirective:
		c.reset()
	}
	return 0, nil
}

// process cleans the characters of one physical line into the output line.
func (c *cCleaner) process(chars []rune) error {
	in := newPushback(chars)
	out := c.out
	for {
		ch, ok := in.next()
		if !ok {
			return nil
		}
		switch c.top() {
		case cTopLevel:
			if c.directivesOnly {
				switch {
				case ch == '\\':
					c.push(cEscaping)
					out.AppendNonspace(ch)
				case ch == '#' && out.Category() == Blank:
					c.push(cDirective)
					out.AppendNonspace(ch)
				default:
					out.AppendChar(ch)
				}
				continue
			}
			if ch == '#' && out.Category() == Blank {
				c.push(cDirective)
				out.AppendNonspace(ch)
				continue
			}
			c.code(ch)
		case cDirective:
			c.code(ch)
		case cDoubleQuote:
			switch ch {
			case '\\':
				c.push(cEscaping)
				out.AppendNonspace(ch)
			case '"':
				c.pop()
				out.AppendNonspace(ch)
			default:
				out.AppendNonspace(ch)
			}
		case cSingleQuote:
			switch ch {
			case '\\':
				c.push(cEscaping)
				out.AppendNonspace(ch)
			case '/':
				c.push(cFoundSlash)
			case '\'':
				c.pop()
				out.AppendNonspace(ch)
			default:
				out.AppendNonspace(ch)
			}
		case cFoundSlash:
			c.pop()
			switch ch {
			case '/':
				c.push(cInlineComment)
			case '*':
				c.push(cBlockComment)
			default:
				out.AppendChar('/')
				in.putback(ch)
			}
		case cBlockComment:
			if ch == '*' {
				c.push(cBlockCommentStar)
			}
		case cBlockCommentStar:
			switch ch {
			case '/':
				if err := c.closeStar('/'); err != nil {
					return err
				}
				c.pop()
				out.AppendSpace()
			case '*':
			default:
				if err := c.closeStar('*'); err != nil {
					return err
				}
			}
		case cEscaping:
			out.AppendNonspace(ch)
			c.pop()
		case cInlineComment:
			return nil
		default:
			return errors.Annotatef(ErrInconsistentState, "unknown state %v", c.top())
		}
	}
}

// code handles a character in ordinary code, shared by top level and
// directive bodies.
func (c *cCleaner) code(ch rune) {
	switch ch {
	case '\\':
		c.push(cEscaping)
		c.out.AppendNonspace(ch)
	case '/':
		c.push(cFoundSlash)
	case '"':
		c.push(cDoubleQuote)
		c.out.AppendNonspace(ch)
	case '\'':
		c.push(cSingleQuote)
		c.out.AppendNonspace(ch)
	default:
		c.out.AppendChar(ch)
	}
}
