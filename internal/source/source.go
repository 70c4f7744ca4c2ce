// Package source splits source files into logical lines and counts source
// lines of code.
//
// A Source reads a file one physical line at a time, strips comments with
// a dialect-specific state machine, joins continued lines and returns each
// non-blank logical line in order. When the input is exhausted Next
// returns io.EOF and Summary reports the totals.
package source

import (
	"io"

	"github.com/pingcap/errors"
	"go.uber.org/zap"

	"github.com/gubarz/sloclass/internal/log"
)

// Source produces the logical lines of one input.
type Source interface {
	// Next returns the next non-blank logical line, or io.EOF once the
	// input is exhausted. Any other error ends the source.
	Next() (LogicalLine, error)
	// Summary returns the totals. It is valid after Next returned io.EOF.
	Summary() Summary
}

// Options configures a Source.
type Options struct {
	// Relaxed tolerates a cleaner that is not back in its initial state
	// at end of input.
	Relaxed bool
	// DirectivesOnly makes the C source recognise only continuations and
	// preprocessor directives, passing everything else through.
	DirectivesOnly bool
	// Name identifies the input in log entries.
	Name string
}

// Dialect selects the cleaning rules.
type Dialect int

const (
	// DialectC covers C and C++.
	DialectC Dialect = iota
	// DialectFortran covers fixed-form Fortran with C preprocessing.
	DialectFortran
	// DialectAsm covers assembly.
	DialectAsm
)

func (d Dialect) String() string {
	switch d {
	case DialectC:
		return "c"
	case DialectFortran:
		return "fortran"
	case DialectAsm:
		return "asm"
	default:
		return "unknown"
	}
}

// Open returns the Source for dialect d reading from r.
func Open(r io.Reader, d Dialect, opts Options) (Source, error) {
	switch d {
	case DialectC:
		return NewCSource(r, opts), nil
	case DialectFortran:
		return NewFortranSource(r, opts), nil
	case DialectAsm:
		return NewAsmSource(r, opts), nil
	default:
		return nil, errors.Errorf("unsupported dialect %d", int(d))
	}
}

// Drain reads src to the end, calling fn for every logical line when fn is
// not nil, and returns the totals.
func Drain(src Source, fn func(LogicalLine) error) (Summary, error) {
	for {
		ll, err := src.Next()
		if err == io.EOF {
			return src.Summary(), nil
		}
		if err != nil {
			return Summary{}, err
		}
		if fn != nil {
			if err := fn(ll); err != nil {
				return Summary{}, err
			}
		}
	}
}

// Collect returns every logical line of src and the totals.
func Collect(src Source) ([]LogicalLine, Summary, error) {
	var lines []LogicalLine
	sum, err := Drain(src, func(ll LogicalLine) error {
		lines = append(lines, ll)
		return nil
	})
	return lines, sum, err
}

// state shared by every driver: the end-of-input bookkeeping.
type driverState struct {
	opts    Options
	done    bool
	err     error
	total   int
	summary Summary
}

func (d *driverState) fail(err error) (LogicalLine, error) {
	d.done = true
	d.err = err
	return LogicalLine{}, err
}

// ended returns the result of a Next call after the source has finished.
func (d *driverState) ended() (LogicalLine, error) {
	if d.err != nil {
		return LogicalLine{}, d.err
	}
	return LogicalLine{}, io.EOF
}

// last returns the final logical line if it is not blank. A pending error
// is reported by the following call.
func (d *driverState) last(ll LogicalLine) (LogicalLine, error) {
	if ll.Category != Blank {
		return ll, nil
	}
	return d.ended()
}

func (d *driverState) Summary() Summary {
	return d.summary
}

func (d *driverState) warnOpenQuote(line int, quote rune) {
	log.Warn("unterminated literal at end of logical line",
		zap.String("file", d.opts.Name),
		zap.Int("line", line),
		zap.String("quote", string(quote)))
}
