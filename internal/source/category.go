package source

// Category classifies the cleaned text of a line.
type Category int

const (
	// Blank is an empty or whitespace-only line.
	Blank Category = iota
	// Directive is a line whose first non-space character is '#'.
	Directive
	// Code is everything else.
	Code
)

func (c Category) String() string {
	switch c {
	case Blank:
		return "BLANK"
	case Directive:
		return "CPP_DIRECTIVE"
	case Code:
		return "SRC_NONBLANK"
	default:
		return "UNKNOWN"
	}
}
