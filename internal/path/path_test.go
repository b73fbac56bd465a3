package path

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"/world",
		"/a/b/c",
		"a/b",
		"/",
		"",
	}
	for _, s := range cases {
		got := Parse(s).String()
		switch s {
		case "/", "":
			// Both collapse to the empty/rooted-empty forms; round trip
			// isn't meaningful for these degenerate inputs.
			continue
		default:
			require.Equal(t, s, got, "round trip for %q", s)
		}
	}
}

func TestParseDropsEmptySegments(t *testing.T) {
	p := Parse("//a//b/")
	require.Equal(t, []string{"a", "b"}, p.Segments())
	require.True(t, p.Rooted())
}

func TestNewEqualsParse(t *testing.T) {
	a := New([]string{"a", "b"}, true)
	b := Parse("/a/b")
	require.True(t, a.Equal(b))
	require.Equal(t, a.Key(), b.Key())
}

func TestEqualIsRootSensitive(t *testing.T) {
	rooted := New([]string{"world"}, true)
	unrooted := New([]string{"world"}, false)
	require.False(t, rooted.Equal(unrooted))
}

func TestLastSegment(t *testing.T) {
	p := Parse("/a/b/c")
	require.Equal(t, "c", p.LastSegment())
}

func TestLastSegmentPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		Parse("/").LastSegment()
	})
}

func TestSegmentCount(t *testing.T) {
	require.Equal(t, 3, Parse("/a/b/c").SegmentCount())
	require.Equal(t, 0, Parse("/").SegmentCount())
}
