package source

import (
	"io"

	"github.com/pingcap/errors"
)

// CSource yields the logical lines of C or C++ code. A trailing backslash
// continues a line; block comments may span lines.
type CSource struct {
	driverState
	lines     *lineReader
	phys      Line
	cleaner   *cCleaner
	cur       *lineInfo
	continued bool
}

// NewCSource returns a CSource reading from r.
func NewCSource(r io.Reader, opts Options) *CSource {
	s := &CSource{
		driverState: driverState{opts: opts},
		lines:       newLineReader(r),
		cur:         newLineInfo(),
	}
	s.cleaner = newCCleaner(&s.phys, opts.DirectivesOnly)
	return s
}

// Next implements Source.
func (s *CSource) Next() (LogicalLine, error) {
	if s.done {
		return s.ended()
	}
	for {
		pl, ok, err := s.lines.next()
		if err != nil {
			return s.fail(err)
		}
		if !ok {
			return s.finish()
		}
		ll, emit, err := s.physical(pl)
		if err != nil {
			return s.fail(err)
		}
		if emit {
			return ll, nil
		}
	}
}

// physical feeds one physical line through the cleaner. It returns the
// logical line it completes, if any.
func (s *CSource) physical(pl physicalLine) (LogicalLine, bool, error) {
	text := pl.text
	n := len(text)
	continued := n > 0 && text[n-1] == '\\'
	if continued && !pl.terminated {
		return LogicalLine{}, false, errors.Annotatef(ErrMalformed,
			"line %d: file ends in '\\' with no newline", pl.num)
	}
	if continued {
		text = text[:n-1]
	}
	s.continued = continued

	s.phys.Reset()
	if err := s.cleaner.process(text); err != nil {
		return LogicalLine{}, false, errors.Annotatef(err, "line %d", pl.num)
	}
	if !continued {
		if err := s.cleaner.endPhysical(); err != nil {
			return LogicalLine{}, false, errors.Annotatef(err, "line %d", pl.num)
		}
		if !s.cleaner.inBlockComment() {
			quote, err := s.cleaner.logicalNewline()
			if err != nil {
				return LogicalLine{}, false, errors.Annotatef(err, "line %d", pl.num)
			}
			if quote != 0 {
				s.warnOpenQuote(pl.num, quote)
			}
		}
	}

	if s.phys.Category() != Blank {
		s.cur.addPhysicalLine(pl.num)
	}
	s.cur.join(&s.phys)

	if continued || s.cleaner.inBlockComment() {
		return LogicalLine{}, false, nil
	}
	ll := s.cur.finish(pl.num + 1)
	s.total += s.cur.reset()
	return ll, ll.Category != Blank, nil
}

func (s *CSource) finish() (LogicalLine, error) {
	s.done = true
	physical := s.lines.count()
	ll := s.cur.finish(physical + 1)
	s.total += s.cur.reset()
	s.summary = Summary{SLOC: s.total, Physical: physical}

	switch {
	case s.continued:
		s.err = errors.Annotatef(ErrMalformed,
			"line %d: continuation with no following line", physical)
	case !s.opts.Relaxed && !s.cleaner.atRest():
		s.err = errors.Annotatef(ErrMalformed,
			"input ends in state %v", s.cleaner.top())
	}
	return s.last(ll)
}

// atRest reports whether the cleaner is in its initial state.
func (s *CSource) atRest() bool {
	return s.cleaner.atRest()
}
