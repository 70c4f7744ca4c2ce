package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushbackOrder(t *testing.T) {
	p := newPushback([]rune("ab"))

	r, ok := p.next()
	require.True(t, ok)
	require.Equal(t, 'a', r)

	p.putback('x')
	r, ok = p.next()
	require.True(t, ok)
	require.Equal(t, 'x', r)

	r, ok = p.next()
	require.True(t, ok)
	require.Equal(t, 'b', r)

	_, ok = p.next()
	require.False(t, ok)

	// A rune put back after the end is still returned.
	p.putback('y')
	r, ok = p.next()
	require.True(t, ok)
	require.Equal(t, 'y', r)
	_, ok = p.next()
	require.False(t, ok)
}

func TestPushbackDoublePutbackPanics(t *testing.T) {
	p := newPushback([]rune("a"))
	p.putback('x')
	require.Panics(t, func() { p.putback('y') })
}

func TestPushbackDrain(t *testing.T) {
	p := newPushback([]rune("abcd"))
	_, _ = p.next()
	_, _ = p.next()
	p.putback('b')
	require.Equal(t, "bcd", string(p.drain()))
	_, ok := p.next()
	require.False(t, ok)
}

func TestIsWhitespace(t *testing.T) {
	for _, r := range " \t\n\r\v\f\x1c\x1d\x1e\x1f\u0085\u00a0\u1680\u2000\u200a\u2028\u2029\u202f\u205f\u3000" {
		require.True(t, IsWhitespace(r), "%U", r)
	}
	for _, r := range "a#/\\\"'\u200b\ufeff0" {
		require.False(t, IsWhitespace(r), "%U", r)
	}
}
