package utils

import (
	"strings"
	"unicode/utf8"
)

// ByteOffsetToRuneIndex converts a byte offset to a rune index in a byte slice
func ByteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}

	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRune(line[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		}
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}

// CaptureNameToStyleName maps tree-sitter capture names to theme style names
// ("@punctuation.bracket" -> "punctuation.bracket"). Theme lookup falls back
// to the part before the dot.
func CaptureNameToStyleName(captureName string) string {
	return strings.TrimPrefix(captureName, "@")
}
