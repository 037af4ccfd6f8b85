package utils

import (
	"unicode"
	"unicode/utf8"
)

// CapitalPositions records which runes of s are uppercase.
// It returns nil when s has no uppercase rune.
func CapitalPositions(s string) []bool {
	var positions []bool
	i := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			if positions == nil {
				positions = make([]bool, utf8.RuneCountInString(s))
			}
			positions[i] = true
		}
		i++
	}
	return positions
}

// ApplyCapitalization uppercases the runes of word at the positions marked in capitals.
// Positions past the end of word are ignored.
func ApplyCapitalization(word string, capitals []bool) string {
	if len(capitals) == 0 {
		return word
	}
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(capitals); i++ {
		if capitals[i] {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

// EndsWithSpace reports whether the last rune of s is whitespace.
func EndsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}
