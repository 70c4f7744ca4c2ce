package source

import "io"

// AsmSource yields the logical lines of assembly code. Every physical line
// is its own logical line.
type AsmSource struct {
	driverState
	lines   *lineReader
	phys    Line
	cleaner *asmCleaner
	cur     *lineInfo
}

// NewAsmSource returns an AsmSource reading from r.
func NewAsmSource(r io.Reader, opts Options) *AsmSource {
	s := &AsmSource{
		driverState: driverState{opts: opts},
		lines:       newLineReader(r),
		cur:         newLineInfo(),
	}
	s.cleaner = newAsmCleaner(&s.phys)
	return s
}

// Next implements Source.
func (s *AsmSource) Next() (LogicalLine, error) {
	if s.done {
		return s.ended()
	}
	for {
		pl, ok, err := s.lines.next()
		if err != nil {
			return s.fail(err)
		}
		if !ok {
			s.done = true
			s.summary = Summary{SLOC: s.total, Physical: s.lines.count()}
			return s.ended()
		}
		s.phys.Reset()
		s.cleaner.process(pl.text)
		if s.phys.Category() != Blank {
			s.cur.addPhysicalLine(pl.num)
		}
		s.cur.join(&s.phys)
		ll := s.cur.finish(pl.num + 1)
		s.total += s.cur.reset()
		if ll.Category != Blank {
			return ll, nil
		}
	}
}
