package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToCoordinate(t *testing.T) {
	source := "type Query {\n  user: User\n}\n"

	testCases := []struct {
		name       string
		line       int
		column     int
		wantOffset int
	}{
		{name: "start of document", line: 1, column: 1, wantOffset: 0},
		{name: "mid first line", line: 1, column: 6, wantOffset: 5},
		{name: "start of second line", line: 2, column: 1, wantOffset: 13},
		{name: "mid second line", line: 2, column: 3, wantOffset: 15},
		{name: "closing brace line", line: 3, column: 1, wantOffset: 27},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToCoordinate(source, tc.line, tc.column)
			require.Equal(t, tc.wantOffset, got.ByteOffset)
			require.Equal(t, tc.line, got.Line)
			require.Equal(t, tc.column, got.Column)
		})
	}
}

func TestToCoordinate_RoundTrip(t *testing.T) {
	source := "schema {\n  query: Query\n}\n\ntype Query {\n  hello: String\n}\n"

	// Slicing at the offset reproduces the text up to (line, column).
	coord := ToCoordinate(source, 5, 6)
	prefix := source[:coord.ByteOffset]
	require.True(t, strings.HasSuffix(prefix, "type "))
	require.Equal(t, 4, strings.Count(prefix, "\n"))
}

func TestToCoordinate_MultiByte(t *testing.T) {
	// é is 2 bytes, 日 is 3 bytes; columns count characters, offsets count
	// bytes.
	source := "# café 日本\ntype Query { x: ID }\n"

	coord := ToCoordinate(source, 1, 7)
	require.Equal(t, "# café", source[:coord.ByteOffset])

	second := ToCoordinate(source, 2, 1)
	require.Equal(t, byte('t'), source[second.ByteOffset])
}

func TestToCoordinate_ClampsOutOfRange(t *testing.T) {
	source := "type Query { x: ID }"

	past := ToCoordinate(source, 9, 9)
	require.LessOrEqual(t, past.ByteOffset, len(source))

	zero := ToCoordinate(source, 0, 0)
	require.Equal(t, 0, zero.ByteOffset)
}

func TestCoordinateAt(t *testing.T) {
	source := "type Query {\n  user: User\n}\n"

	testCases := []struct {
		name       string
		offset     int
		wantLine   int
		wantColumn int
	}{
		{name: "start", offset: 0, wantLine: 1, wantColumn: 1},
		{name: "first line", offset: 5, wantLine: 1, wantColumn: 6},
		{name: "second line start", offset: 13, wantLine: 2, wantColumn: 1},
		{name: "second line middle", offset: 15, wantLine: 2, wantColumn: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoordinateAt(source, tc.offset)
			require.Equal(t, tc.wantLine, got.Line)
			require.Equal(t, tc.wantColumn, got.Column)
			require.Equal(t, tc.offset, got.ByteOffset)
		})
	}
}

func TestCoordinateAt_InverseOfToCoordinate(t *testing.T) {
	source := "type A {\n  b: B\n  c: C\n}\n"
	for line := 1; line <= 4; line++ {
		coord := ToCoordinate(source, line, 2)
		back := CoordinateAt(source, coord.ByteOffset)
		require.Equal(t, coord, back)
	}
}
