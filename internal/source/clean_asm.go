package source

// asmCleaner strips ';', '#' and '//' comments from assembly. It keeps no
// state between physical lines.
type asmCleaner struct {
	out *Line
}

func newAsmCleaner(out *Line) *asmCleaner {
	return &asmCleaner{out: out}
}

func (a *asmCleaner) process(chars []rune) {
	in := newPushback(chars)
	foundSlash := false
	for {
		ch, ok := in.next()
		if !ok {
			break
		}
		if foundSlash {
			foundSlash = false
			if ch == '/' {
				a.out.AppendSpace()
				return
			}
			a.out.AppendChar('/')
			in.putback(ch)
			continue
		}
		switch ch {
		case ';', '#':
			a.out.AppendSpace()
			return
		case '/':
			foundSlash = true
		default:
			a.out.AppendChar(ch)
		}
	}
	if foundSlash {
		a.out.AppendChar('/')
	}
}
