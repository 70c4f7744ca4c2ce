package source

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gubarz/sloclass/internal/log"
)

func collect(t *testing.T, d Dialect, in string, opts Options) ([]LogicalLine, Summary) {
	t.Helper()
	src, err := Open(strings.NewReader(in), d, opts)
	require.NoError(t, err)
	lines, sum, err := Collect(src)
	require.NoError(t, err)
	checkCoverage(t, lines, sum)
	return lines, sum
}

// checkCoverage verifies that intervals are ordered and disjoint, lie inside
// the input, and that SLOC adds up.
func checkCoverage(t *testing.T, lines []LogicalLine, sum Summary) {
	t.Helper()
	prevEnd := 1
	total := 0
	for _, ll := range lines {
		require.GreaterOrEqual(t, ll.Start, prevEnd, "%+v", ll)
		require.Less(t, ll.Start, ll.End, "%+v", ll)
		require.LessOrEqual(t, ll.End, sum.Physical+1, "%+v", ll)
		require.Len(t, ll.Lines, ll.SLOC)
		for _, n := range ll.Lines {
			require.True(t, n >= ll.Start && n < ll.End, "%+v", ll)
		}
		require.NotEqual(t, Blank, ll.Category)
		prevEnd = ll.End
		total += ll.SLOC
	}
	require.Equal(t, sum.SLOC, total)
	require.LessOrEqual(t, sum.SLOC, sum.Physical)
}

func TestCSourceTrailingComment(t *testing.T) {
	lines, sum := collect(t, DialectC, "int x = 5; // trailing\n", Options{})
	require.Equal(t, []LogicalLine{{
		Start: 1, End: 2, Lines: []int{1}, SLOC: 1,
		Text: "int x = 5; ", Category: Code,
	}}, lines)
	require.Equal(t, Summary{SLOC: 1, Physical: 1}, sum)
}

func TestCSourceBlockCommentSpansLines(t *testing.T) {
	lines, sum := collect(t, DialectC, "/* c1\n   c2 */ y=2;\n", Options{})
	require.Equal(t, []LogicalLine{{
		Start: 1, End: 3, Lines: []int{2}, SLOC: 1,
		Text: " y=2;", Category: Code,
	}}, lines)
	require.Equal(t, Summary{SLOC: 1, Physical: 2}, sum)
}

func TestCSourceContinuation(t *testing.T) {
	lines, sum := collect(t, DialectC, "a = 1 + \\\n    2;\n", Options{})
	require.Equal(t, []LogicalLine{{
		Start: 1, End: 3, Lines: []int{1, 2}, SLOC: 2,
		Text: "a = 1 + 2;", Category: Code,
	}}, lines)
	require.Equal(t, Summary{SLOC: 2, Physical: 2}, sum)
}

func TestCSourceDirective(t *testing.T) {
	lines, _ := collect(t, DialectC, "  #define FOO 1\nint x;\n", Options{})
	require.Len(t, lines, 2)
	require.Equal(t, Directive, lines[0].Category)
	require.Equal(t, " #define FOO 1", lines[0].Text)
	require.Equal(t, Code, lines[1].Category)
	require.Equal(t, 2, lines[1].Start)
	require.Equal(t, 3, lines[1].End)
}

func TestCSourceMultiLineDirective(t *testing.T) {
	in := "#define MAX(a, b) \\\n  ((a) > (b) ? (a) : (b))\nint m;\n"
	lines, sum := collect(t, DialectC, in, Options{})
	require.Len(t, lines, 2)
	require.Equal(t, "#define MAX(a, b) ((a) > (b) ? (a) : (b))", lines[0].Text)
	require.Equal(t, Directive, lines[0].Category)
	require.Equal(t, 1, lines[0].Start)
	require.Equal(t, 3, lines[0].End)
	require.Equal(t, Summary{SLOC: 3, Physical: 3}, sum)
}

func TestCSourceBlankLines(t *testing.T) {
	lines, sum := collect(t, DialectC, "\n\n  int a;\n\n// only a comment\n", Options{})
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Start)
	require.Equal(t, 4, lines[0].End)
	require.Equal(t, Summary{SLOC: 1, Physical: 5}, sum)
}

func TestCSourceEmptyInput(t *testing.T) {
	lines, sum := collect(t, DialectC, "", Options{})
	require.Empty(t, lines)
	require.Equal(t, Summary{}, sum)
}

func TestCSourceCRLFAndUnterminatedLastLine(t *testing.T) {
	lines, sum := collect(t, DialectC, "int a;\r\nint b;", Options{})
	require.Len(t, lines, 2)
	require.Equal(t, "int a;", lines[0].Text)
	require.Equal(t, "int b;", lines[1].Text)
	require.Equal(t, Summary{SLOC: 2, Physical: 2}, sum)
}

func TestCSourceTruncatedContinuation(t *testing.T) {
	for _, in := range []string{"int a = \\", "int a = \\\n"} {
		src := NewCSource(strings.NewReader(in), Options{Relaxed: true})
		_, _, err := Collect(src)
		require.Error(t, err, "input %q", in)
		require.True(t, IsMalformed(err), "input %q", in)
	}
}

func TestCSourceRelaxed(t *testing.T) {
	in := "int a;\n/* open\nstill open\n"

	src := NewCSource(strings.NewReader(in), Options{})
	ll, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, "int a;", ll.Text)
	_, err = src.Next()
	require.True(t, IsMalformed(err))
	// The error sticks.
	_, err = src.Next()
	require.True(t, IsMalformed(err))

	lines, sum := collect(t, DialectC, in, Options{Relaxed: true})
	require.Len(t, lines, 1)
	require.Equal(t, Summary{SLOC: 1, Physical: 3}, sum)
}

func TestCSourceNextAfterEOF(t *testing.T) {
	src := NewCSource(strings.NewReader("x;\n"), Options{})
	_, err := src.Next()
	require.NoError(t, err)
	_, err = src.Next()
	require.Equal(t, io.EOF, err)
	_, err = src.Next()
	require.Equal(t, io.EOF, err)
	require.Equal(t, Summary{SLOC: 1, Physical: 1}, src.Summary())
}

func TestCSourceWarnsOnOpenLiteral(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log.SetAppLogger(zap.New(core))
	t.Cleanup(func() { log.SetAppLogger(zap.NewNop()) })

	lines, _ := collect(t, DialectC, "char *s = \"abc;\nint b;\n", Options{Name: "a.c"})
	require.Len(t, lines, 2)
	require.Equal(t, "int b;", lines[1].Text)

	entries := logs.FilterMessage("unterminated literal at end of logical line").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "a.c", fields["file"])
	require.EqualValues(t, 1, fields["line"])
	require.Equal(t, "\"", fields["quote"])
}

func TestCSourceMixedCorpus(t *testing.T) {
	in := strings.Join([]string{
		"/*",
		" * Header comment.",
		" */",
		"#include <stdio.h>",
		"",
		"#define GREETING \"hi // there\" /* c */",
		"",
		"int main(void) {",
		"    const char *s = \"/* not a comment */\";",
		"    int x = 1 + \\",
		"            2; // sum",
		"    /* inline */ printf(\"%s\\n\", s);",
		"",
		"    return x / 2; /* multi",
		"       line */",
		"}",
		"",
	}, "\n")
	lines, sum := collect(t, DialectC, in, Options{})
	texts := make([]string, 0, len(lines))
	for _, ll := range lines {
		texts = append(texts, ll.Text)
	}
	require.Equal(t, []string{
		"#include <stdio.h>",
		"#define GREETING \"hi // there\" ",
		"int main(void) {",
		" const char *s = \"/* not a comment */\";",
		" int x = 1 + 2; ",
		" printf(\"%s\\n\", s);",
		" return x / 2; ",
		"}",
	}, texts)
	require.Equal(t, Summary{SLOC: 9, Physical: 16}, sum)
	require.Equal(t, 14, lines[6].Start)
	require.Equal(t, 16, lines[6].End)
	require.Equal(t, []int{14}, lines[6].Lines)
}

func TestFortranSourceContinuation(t *testing.T) {
	lines, sum := collect(t, DialectFortran, "      x = 1 &\n     & + 2\n", Options{})
	require.Equal(t, []LogicalLine{{
		Start: 1, End: 3, Lines: []int{1, 2}, SLOC: 2,
		Text: " x = 1 + 2", Category: Code,
	}}, lines)
	require.Equal(t, Summary{SLOC: 2, Physical: 2}, sum)
}

func TestFortranSourceDirectives(t *testing.T) {
	in := "#ifdef FOO\n      x = 1 ! set\n#endif\n"
	lines, sum := collect(t, DialectFortran, in, Options{})
	require.Len(t, lines, 3)
	require.Equal(t, Directive, lines[0].Category)
	require.Equal(t, "#ifdef FOO", lines[0].Text)
	require.Equal(t, " x = 1 ", lines[1].Text)
	require.Equal(t, 2, lines[1].Start)
	require.Equal(t, Directive, lines[2].Category)
	require.Equal(t, Summary{SLOC: 3, Physical: 3}, sum)
}

func TestFortranSourceDirectiveInsideContinuation(t *testing.T) {
	in := "      x = 1 &\n#ifdef A\n     & + 2\n#endif\n"
	lines, sum := collect(t, DialectFortran, in, Options{})
	require.Equal(t, []LogicalLine{
		{Start: 1, End: 2, Lines: []int{1}, SLOC: 1, Text: " x = 1 ", Category: Code},
		{Start: 2, End: 3, Lines: []int{2}, SLOC: 1, Text: "#ifdef A", Category: Directive},
		{Start: 3, End: 4, Lines: []int{3}, SLOC: 1, Text: " + 2", Category: Code},
		{Start: 4, End: 5, Lines: []int{4}, SLOC: 1, Text: "#endif", Category: Directive},
	}, lines)
	require.Equal(t, Summary{SLOC: 4, Physical: 4}, sum)
}

func TestFortranSourceCommentsAndCompilerDirectives(t *testing.T) {
	in := "! header\n\n!$omp parallel do\n      do i = 1, n ! loop\n      end do\n"
	lines, sum := collect(t, DialectFortran, in, Options{})
	texts := make([]string, 0, len(lines))
	for _, ll := range lines {
		texts = append(texts, ll.Text)
	}
	require.Equal(t, []string{"!$omp parallel do", " do i = 1, n ", " end do"}, texts)
	require.Equal(t, 3, lines[0].Start)
	require.Equal(t, Summary{SLOC: 3, Physical: 5}, sum)
}

func TestFortranSourceContinuationAtEOF(t *testing.T) {
	in := "      x = 1 &\n"
	_, _, err := Collect(NewFortranSource(strings.NewReader(in), Options{}))
	require.True(t, IsMalformed(err))

	lines, _ := collect(t, DialectFortran, in, Options{Relaxed: true})
	require.Len(t, lines, 1)
	require.Equal(t, " x = 1 ", lines[0].Text)
}

func TestAsmSource(t *testing.T) {
	lines, sum := collect(t, DialectAsm, "mov eax, 1 ; note\n", Options{})
	require.Equal(t, []LogicalLine{{
		Start: 1, End: 2, Lines: []int{1}, SLOC: 1,
		Text: "mov eax, 1 ", Category: Code,
	}}, lines)
	require.Equal(t, Summary{SLOC: 1, Physical: 1}, sum)

	lines, sum = collect(t, DialectAsm, "start:\n  mov a, b # c\n\n; done\n  ret\na /\n/ b\n", Options{})
	texts := make([]string, 0, len(lines))
	for _, ll := range lines {
		texts = append(texts, ll.Text)
	}
	require.Equal(t, []string{"start:", " mov a, b ", " ret", "a /", "/ b"}, texts)
	require.Equal(t, Summary{SLOC: 5, Physical: 7}, sum)
}

func TestOpenUnknownDialect(t *testing.T) {
	_, err := Open(strings.NewReader(""), Dialect(99), Options{})
	require.Error(t, err)
}

func TestDecodingReader(t *testing.T) {
	in := "\xef\xbb\xbfint a;\nint \xff;\n"
	src := NewCSource(NewDecodingReader(strings.NewReader(in)), Options{})
	lines, _, err := Collect(src)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "int a;", lines[0].Text)
	require.Equal(t, "int \ufffd;", lines[1].Text)
}

func TestDrainStopsOnCallbackError(t *testing.T) {
	src := NewCSource(strings.NewReader("a;\nb;\n"), Options{})
	stop := io.ErrShortWrite
	_, err := Drain(src, func(LogicalLine) error { return stop })
	require.Equal(t, stop, err)
}
