package source

// pushback iterates over the runes of one physical line and lets a state
// machine return a single rune for re-reading.
type pushback struct {
	src     []rune
	pos     int
	held    rune
	hasHeld bool
}

func newPushback(src []rune) *pushback {
	return &pushback{src: src}
}

// next returns the held rune if there is one, otherwise the next rune of
// the line. ok is false once the line is exhausted.
func (p *pushback) next() (r rune, ok bool) {
	if p.hasHeld {
		p.hasHeld = false
		return p.held, true
	}
	if p.pos >= len(p.src) {
		return 0, false
	}
	r = p.src[p.pos]
	p.pos++
	return r, true
}

// putback stores r so the following next returns it. Only one rune can be
// held; a second putback is a bug in the calling state machine.
func (p *pushback) putback(r rune) {
	if p.hasHeld {
		panic("source: pushback can only hold one rune at a time")
	}
	p.held = r
	p.hasHeld = true
}

// drain returns everything not yet consumed and empties the iterator.
func (p *pushback) drain() []rune {
	var rest []rune
	if p.hasHeld {
		rest = append(rest, p.held)
		p.hasHeld = false
	}
	rest = append(rest, p.src[p.pos:]...)
	p.pos = len(p.src)
	return rest
}
