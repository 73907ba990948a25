package check

import (
	"strings"
	"unicode/utf8"
)

// ToCoordinate converts a 1-based (line, column) position in source into a
// Coordinate whose ByteOffset is the number of bytes preceding the position.
//
// Columns are character positions as produced by the SDL lexer; the offset
// counts the UTF-8 byte length of those characters, so multi-byte text maps
// to byte-precise offsets. Slicing source at the returned offset reproduces
// the text up to, but excluding, (line, column).
//
// Offsets are valid only against the source they were computed from; a
// coordinate must never be reused across documents.
func ToCoordinate(source string, line, column int) Coordinate {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		line = len(lines)
	}

	offset := 0
	for i := 0; i < line-1; i++ {
		offset += len(lines[i]) + 1 // +1 for the separator
	}

	// First column-1 characters of the target line, counted in bytes.
	rest := lines[line-1]
	for i := 0; i < column-1 && len(rest) > 0; i++ {
		_, size := utf8.DecodeRuneInString(rest)
		offset += size
		rest = rest[size:]
	}

	return Coordinate{Line: line, Column: column, ByteOffset: offset}
}

// CoordinateAt converts a 0-based byte offset in source into a Coordinate.
// Offsets beyond the source are clamped to its end.
func CoordinateAt(source string, offset int) Coordinate {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	prefix := source[:offset]
	line := strings.Count(prefix, "\n") + 1
	lastNL := strings.LastIndexByte(prefix, '\n')
	column := len([]rune(prefix[lastNL+1:])) + 1

	return Coordinate{Line: line, Column: column, ByteOffset: offset}
}
