package source

import (
	"unicode"

	"github.com/pingcap/errors"
)

type fState uint8

const (
	fTopLevel fState = iota
	fContinuingFromSOL
	fDoubleQuote
	fSingleQuote
	fEscaping
	fVerifyContinue
)

func (s fState) String() string {
	switch s {
	case fTopLevel:
		return "TOPLEVEL"
	case fContinuingFromSOL:
		return "CONTINUING_FROM_SOL"
	case fDoubleQuote:
		return "DOUBLE_QUOTATION"
	case fSingleQuote:
		return "SINGLE_QUOTATION"
	case fEscaping:
		return "ESCAPING"
	case fVerifyContinue:
		return "VERIFY_CONTINUE"
	default:
		return "UNKNOWN"
	}
}

// fortranCleaner removes comments and blanks from Fortran source while
// keeping compiler directives, literals and '&' continuations straight. It
// expects C preprocessor directives to have been split off already.
type fortranCleaner struct {
	state []fState
	out   *Line
	// pending holds an '&' and the whitespace after it until it is known
	// whether they form a continuation marker.
	pending []rune
}

func newFortranCleaner(out *Line) *fortranCleaner {
	return &fortranCleaner{
		state: []fState{fTopLevel},
		out:   out,
	}
}

func (f *fortranCleaner) top() fState {
	return f.state[len(f.state)-1]
}

// below returns the state under the top of the stack.
func (f *fortranCleaner) below() fState {
	if len(f.state) < 2 {
		return fTopLevel
	}
	return f.state[len(f.state)-2]
}

func (f *fortranCleaner) push(s fState) {
	f.state = append(f.state, s)
}

func (f *fortranCleaner) pop() {
	f.state = f.state[:len(f.state)-1]
}

func (f *fortranCleaner) reset() {
	f.state = append(f.state[:0], fTopLevel)
	f.pending = f.pending[:0]
}

func (f *fortranCleaner) atRest() bool {
	return len(f.state) == 1 && f.state[0] == fTopLevel
}

// continuing reports whether the current logical line goes on into the
// next physical line.
func (f *fortranCleaner) continuing() bool {
	return f.top() == fContinuingFromSOL
}

// dirCheck is called after a '!'. A '$' reached through letters only marks
// a compiler directive such as "!$omp" or "!DIR$", which is kept verbatim
// together with the rest of the line. Anything else is a comment.
func (f *fortranCleaner) dirCheck(in *pushback) {
	found := []rune{'!'}
	for {
		ch, ok := in.next()
		if !ok {
			return
		}
		switch {
		case ch == '$':
			found = append(found, ch)
			for _, r := range found {
				f.out.AppendNonspace(r)
			}
			for _, r := range in.drain() {
				f.out.AppendNonspace(r)
			}
			return
		case unicode.IsLetter(ch):
			found = append(found, ch)
		default:
			return
		}
	}
}

// logicalNewline resets state when a Fortran logical line is complete. An
// open literal is dropped and its quote returned.
func (f *fortranCleaner) logicalNewline() rune {
	var open rune
	for _, s := range f.state {
		switch s {
		case fSingleQuote:
			open = '\''
		case fDoubleQuote:
			open = '"'
		}
	}
	f.reset()
	return open
}

// process cleans the characters of one chunk into the output line.
func (f *fortranCleaner) process(chars []rune) error {
	in := newPushback(chars)
	out := f.out
loop:
	for {
		ch, ok := in.next()
		if !ok {
			break
		}
		switch f.top() {
		case fTopLevel:
			switch ch {
			case '\\':
				f.push(fEscaping)
				out.AppendNonspace(ch)
			case '!':
				f.dirCheck(in)
				f.reset()
				break loop
			case '&':
				f.pending = append(f.pending, ch)
				f.push(fVerifyContinue)
			case '"':
				f.push(fDoubleQuote)
				out.AppendNonspace(ch)
			case '\'':
				f.push(fSingleQuote)
				out.AppendNonspace(ch)
			default:
				out.AppendChar(ch)
			}
		case fContinuingFromSOL:
			switch {
			case IsWhitespace(ch):
				out.AppendSpace()
			case ch == '&':
				f.pop()
			case ch == '!':
				f.dirCheck(in)
				break loop
			default:
				f.pop()
				in.putback(ch)
			}
		case fDoubleQuote, fSingleQuote:
			closing := '"'
			if f.top() == fSingleQuote {
				closing = '\''
			}
			switch ch {
			case '\\':
				f.push(fEscaping)
				out.AppendNonspace(ch)
			case closing:
				f.pop()
				out.AppendNonspace(ch)
			case '&':
				f.pending = append(f.pending, ch)
				f.push(fVerifyContinue)
			default:
				out.AppendNonspace(ch)
			}
		case fEscaping:
			out.AppendNonspace(ch)
			f.pop()
		case fVerifyContinue:
			switch {
			case ch == '!' && f.below() == fTopLevel:
				f.dirCheck(in)
				break loop
			case IsWhitespace(ch):
				f.pending = append(f.pending, ch)
			case ch == '&':
				// A second marker confirms the continuation; both are dropped.
				f.pending = f.pending[:0]
				f.pop()
			default:
				for _, r := range f.pending {
					out.AppendNonspace(r)
				}
				f.pending = f.pending[:0]
				f.pop()
				in.putback(ch)
			}
		default:
			return errors.Annotatef(ErrInconsistentState, "unknown state %v", f.top())
		}
	}
	if f.top() == fVerifyContinue {
		f.pending = f.pending[:0]
		f.state[len(f.state)-1] = fContinuingFromSOL
	}
	return nil
}
