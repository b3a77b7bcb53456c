package domain

import (
	"strings"
	"unicode"
)

// Symbol is a single tape value. Symbols are whitespace-free tokens of the description.
type Symbol string

// Blank marks an unwritten cell. It is never part of the declared alphabet.
const Blank Symbol = "_"

// IsBlank reports whether s is the reserved blank symbol.
func (s Symbol) IsBlank() bool {
	return s == Blank
}

// SplitSymbols turns a string into one symbol per rune.
// Whitespace is skipped, so tape files may be wrapped or indented freely.
func SplitSymbols(s string) []Symbol {
	out := make([]Symbol, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, Symbol(string(r)))
	}
	return out
}

// JoinSymbols concatenates symbols back into a string.
func JoinSymbols(symbols []Symbol) string {
	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(string(s))
	}
	return sb.String()
}
