package source

// LogicalLine is one logical line of a file: the physical lines joined by
// continuations or spanned by a block comment, with comments stripped.
type LogicalLine struct {
	// Start and End bound the physical lines spanned, [Start, End).
	Start int
	End   int
	// Lines lists the physical lines that contributed non-blank text.
	Lines []int
	// SLOC is len(Lines).
	SLOC     int
	Text     string
	Category Category
}

// Summary is the result of draining a Source.
type Summary struct {
	SLOC     int
	Physical int
}

// lineInfo accumulates physical lines into a logical line.
type lineInfo struct {
	text  Line
	start int
	end   int
	lines []int
	sloc  int
}

func newLineInfo() *lineInfo {
	return &lineInfo{start: 1}
}

func (li *lineInfo) join(phys *Line) {
	li.text.Join(phys)
}

func (li *lineInfo) addPhysicalLines(lines []int) {
	li.lines = append(li.lines, lines...)
	li.sloc += len(lines)
}

func (li *lineInfo) addPhysicalLine(n int) {
	li.lines = append(li.lines, n)
	li.sloc++
}

// finish closes the logical line at physical line end (exclusive) and
// returns it. The accumulated text is flushed.
func (li *lineInfo) finish(end int) LogicalLine {
	li.end = end
	cat := li.text.Category()
	lines := make([]int, len(li.lines))
	copy(lines, li.lines)
	return LogicalLine{
		Start:    li.start,
		End:      li.end,
		Lines:    lines,
		SLOC:     li.sloc,
		Text:     li.text.Flush(),
		Category: cat,
	}
}

// reset prepares for the next logical line, which starts where the last one
// ended, and returns the SLOC counted for the last one.
func (li *lineInfo) reset() int {
	sloc := li.sloc
	li.start = li.end
	li.lines = li.lines[:0]
	li.sloc = 0
	li.text.Reset()
	return sloc
}
