package source

import (
	"io"

	"github.com/pingcap/errors"
)

// FortranSource yields the logical lines of fixed-form Fortran that may
// carry C preprocessor directives. A directives-only CSource splits the
// input first; directive lines are passed through as the C source
// produced them and everything else is cleaned as Fortran.
type FortranSource struct {
	driverState
	c       *CSource
	phys    Line
	cleaner *fortranCleaner
	cur     *lineInfo
	// open is set while a Fortran logical line has consumed chunks.
	open    bool
	lastEnd int
	queued  *LogicalLine
}

// NewFortranSource returns a FortranSource reading from r.
func NewFortranSource(r io.Reader, opts Options) *FortranSource {
	s := &FortranSource{
		driverState: driverState{opts: opts},
		c: NewCSource(r, Options{
			Relaxed:        true,
			DirectivesOnly: true,
			Name:           opts.Name,
		}),
		cur: newLineInfo(),
	}
	s.cleaner = newFortranCleaner(&s.phys)
	return s
}

// Next implements Source.
func (s *FortranSource) Next() (LogicalLine, error) {
	if s.queued != nil {
		ll := *s.queued
		s.queued = nil
		return ll, nil
	}
	if s.done {
		return s.ended()
	}
	for {
		chunk, err := s.c.Next()
		if err == io.EOF {
			return s.finish()
		}
		if err != nil {
			return s.fail(err)
		}

		if chunk.Category == Directive {
			s.total += chunk.SLOC
			if s.open {
				// The continuation state survives the directive; only the
				// text gathered so far is closed off.
				pending := s.close(s.lastEnd)
				if pending.Category != Blank {
					s.queued = &chunk
					return pending, nil
				}
			}
			return chunk, nil
		}

		if !s.open {
			s.cur.start = chunk.Start
			s.open = true
		}
		s.phys.Reset()
		if err := s.cleaner.process([]rune(chunk.Text)); err != nil {
			return s.fail(errors.Annotatef(err, "line %d", chunk.Start))
		}
		if s.phys.Category() != Blank {
			s.cur.addPhysicalLines(chunk.Lines)
		}
		s.cur.join(&s.phys)
		s.lastEnd = chunk.End

		if s.cleaner.continuing() {
			continue
		}
		if quote := s.cleaner.logicalNewline(); quote != 0 {
			s.warnOpenQuote(chunk.End-1, quote)
		}
		ll := s.close(chunk.End)
		if ll.Category != Blank {
			return ll, nil
		}
	}
}

// close finishes the pending Fortran logical line at end.
func (s *FortranSource) close(end int) LogicalLine {
	ll := s.cur.finish(end)
	s.total += s.cur.reset()
	s.open = false
	return ll
}

func (s *FortranSource) finish() (LogicalLine, error) {
	s.done = true
	physical := s.c.Summary().Physical
	var ll LogicalLine
	if s.open {
		ll = s.close(s.lastEnd)
	}
	s.summary = Summary{SLOC: s.total, Physical: physical}

	if !s.opts.Relaxed {
		switch {
		case !s.cleaner.atRest():
			s.err = errors.Annotatef(ErrMalformed,
				"input ends in state %v", s.cleaner.top())
		case !s.c.atRest():
			s.err = errors.Annotatef(ErrMalformed,
				"input ends in preprocessor state %v", s.c.cleaner.top())
		}
	}
	return s.last(ll)
}
