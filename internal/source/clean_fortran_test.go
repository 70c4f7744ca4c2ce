package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFortranCleaner(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comment", " x = 1 ! set x", " x = 1 "},
		{"comment line", "! nothing", ""},
		{"openmp directive", "!$omp parallel do", "!$omp parallel do"},
		{"vendor directive", " call f() !DIR$ IVDEP", " call f() !DIR$ IVDEP"},
		{"directive keeps spacing", "!$acc  loop", "!$acc  loop"},
		{"not a directive", "! 1$ no", ""},
		{"ampersand in code", "a & b", "a & b"},
		{"ampersand in string", "x = 'AT&T'", "x = 'AT&T'"},
		{"bang in string", "print *, 'hi!'", "print *, 'hi!'"},
		{"double quoted", `s = "a  b"`, `s = "a  b"`},
		{"escape in string", `s = 'a\'b'`, `s = 'a\'b'`},
		{"confirmed marker pair", "a & & b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out Line
			f := newFortranCleaner(&out)
			require.NoError(t, f.process([]rune(tt.in)))
			require.False(t, f.continuing())
			require.Equal(t, tt.want, out.Flush())
			require.Zero(t, f.logicalNewline())
			require.True(t, f.atRest())
		})
	}
}

func TestFortranCleanerContinuation(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"leading ampersand", []string{" x = 1 &", " & + 2"}, " x = 1 + 2"},
		{"no leading ampersand", []string{" x = 1 &", " + 2"}, " x = 1 + 2"},
		{"comment after marker", []string{" x = 1 & ! more", " & + 2"}, " x = 1 + 2"},
		{"comment line inside", []string{" x = 1 &", " ! note", " & + 2"}, " x = 1 + 2"},
		{"string continued", []string{" s = 'ab&", " &cd'"}, " s = 'ab cd'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logical, out Line
			f := newFortranCleaner(&out)
			for i, l := range tt.lines {
				out.Reset()
				require.NoError(t, f.process([]rune(l)))
				logical.Join(&out)
				if i < len(tt.lines)-1 {
					require.True(t, f.continuing(), "line %d", i)
				}
			}
			require.False(t, f.continuing())
			require.Equal(t, tt.want, logical.Flush())
			require.Zero(t, f.logicalNewline())
			require.True(t, f.atRest())
		})
	}
}

func TestFortranCleanerOpenQuote(t *testing.T) {
	var out Line
	f := newFortranCleaner(&out)
	require.NoError(t, f.process([]rune("c don't")))
	require.False(t, f.continuing())
	require.False(t, f.atRest())
	require.Equal(t, '\'', f.logicalNewline())
	require.True(t, f.atRest())
}
