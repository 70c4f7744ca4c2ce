package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/pingcap/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewDecodingReader wraps r so that a byte order mark selects UTF-8 or
// UTF-16, UTF-8 is assumed otherwise, and invalid sequences become U+FFFD.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// physicalLine is one line of input without its terminator.
type physicalLine struct {
	num        int
	text       []rune
	terminated bool
}

// lineReader splits input into numbered physical lines. Both "\n" and
// "\r\n" end a line.
type lineReader struct {
	br  *bufio.Reader
	num int
	eof bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// next returns the next physical line. ok is false at end of input.
func (lr *lineReader) next() (pl physicalLine, ok bool, err error) {
	if lr.eof {
		return physicalLine{}, false, nil
	}
	s, err := lr.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return physicalLine{}, false, errors.Trace(err)
	}
	if err == io.EOF {
		lr.eof = true
		if len(s) == 0 {
			return physicalLine{}, false, nil
		}
	}
	terminated := strings.HasSuffix(s, "\n")
	if terminated {
		s = strings.TrimSuffix(s[:len(s)-1], "\r")
	}
	lr.num++
	return physicalLine{num: lr.num, text: []rune(s), terminated: terminated}, true, nil
}

// count returns the number of physical lines read so far.
func (lr *lineReader) count() int {
	return lr.num
}
